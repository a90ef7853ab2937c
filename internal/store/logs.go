package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/models"
)

// DefaultLogLimit is how many documents RecentLogs returns when asked for 0
const DefaultLogLimit = 200

// QueryEvents returns the events of one log ascending by time, then ID.
// Nil bounds are open. Documents that fail to decode are skipped.
func (s *GormStore) QueryEvents(ctx context.Context, kind models.LogKind, from, to *time.Time) ([]models.ChangeEvent, error) {
	q := s.db.WithContext(ctx).Where("kind = ?", kind)
	if from != nil {
		q = q.Where("time_millis >= ?", from.UnixMilli())
	}
	if to != nil {
		q = q.Where("time_millis <= ?", to.UnixMilli())
	}

	var logs []models.ChangeLog
	if err := q.Order("time_millis ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("query %s logs: %w", kind, err)
	}
	return decodeLogs(logs), nil
}

// RecentLogs returns up to limit documents of one log, newest first
func (s *GormStore) RecentLogs(ctx context.Context, kind models.LogKind, limit int) ([]models.ChangeEvent, error) {
	if limit <= 0 {
		limit = DefaultLogLimit
	}

	var logs []models.ChangeLog
	err := s.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("time_millis DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("recent %s logs: %w", kind, err)
	}
	return decodeLogs(logs), nil
}

// AppendLog writes one change document with a fresh sortable ID
func (s *GormStore) AppendLog(ctx context.Context, kind models.LogKind, entries []models.LogEntry) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		id, err = s.appendLog(tx, kind, entries)
		return err
	})
	if err != nil {
		return "", err
	}
	s.notify()
	return id, nil
}

func (s *GormStore) appendLog(tx *gorm.DB, kind models.LogKind, entries []models.LogEntry) (string, error) {
	at := s.now().UTC()
	body, err := models.EncodeLogDocument(at, entries)
	if err != nil {
		return "", fmt.Errorf("encode %s log: %w", kind, err)
	}

	doc := models.ChangeLog{
		Kind:       kind,
		ID:         models.NewLogID(at),
		TimeMillis: at.UnixMilli(),
		Body:       string(body),
	}
	if err := tx.Create(&doc).Error; err != nil {
		return "", fmt.Errorf("append %s log: %w", kind, err)
	}
	return doc.ID, nil
}

func decodeLogs(logs []models.ChangeLog) []models.ChangeEvent {
	events := make([]models.ChangeEvent, 0, len(logs))
	for _, cl := range logs {
		ev, err := cl.Event()
		if err != nil {
			log.Warn().Err(err).Str("kind", string(cl.Kind)).Str("id", cl.ID).Msg("Skipping undecodable log document")
			continue
		}
		events = append(events, ev)
	}
	return events
}
