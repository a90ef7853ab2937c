package database

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/metrics"
	"github.com/codyseavey/packtracker/internal/models"
)

// opsPerBatch bounds each committed transaction; a migrated log is two ops
// (insert new, delete old).
const opsPerBatch = 400

// LogIDOptions controls MigrateLogIDs
type LogIDOptions struct {
	// Execute writes the changes; otherwise the run only reports them
	Execute bool
	// Retry is the backoff policy for each batch commit. Nil uses a bounded
	// exponential backoff.
	Retry func() backoff.BackOff
}

// LogIDResult counts what one MigrateLogIDs run did
type LogIDResult struct {
	Kind      models.LogKind `json:"kind"`
	Processed int            `json:"processed"`
	Migrated  int            `json:"migrated"`
	Skipped   int            `json:"skipped"`
	Batches   int            `json:"batches"`
	DryRun    bool           `json:"dry_run"`
}

type rename struct {
	log   models.ChangeLog
	newID string
}

// MigrateLogIDs renames every log of kind whose ID is not yet time-sortable
// to the form 2025-12-13T20-15-03-123Z-abcd. The stored document is copied
// unchanged and the old row is deleted. Logs are visited by time, then old
// ID; logs with an unparseable time get IDs at the epoch.
func MigrateLogIDs(ctx context.Context, db *gorm.DB, kind models.LogKind, opts LogIDOptions) (LogIDResult, error) {
	res := LogIDResult{Kind: kind, DryRun: !opts.Execute}

	var logs []models.ChangeLog
	if err := db.WithContext(ctx).Where("kind = ?", kind).Find(&logs).Error; err != nil {
		return res, fmt.Errorf("list %s logs: %w", kind, err)
	}

	type keyed struct {
		log models.ChangeLog
		at  time.Time
	}
	ordered := make([]keyed, 0, len(logs))
	taken := make(map[string]bool, len(logs))
	for _, cl := range logs {
		at := time.UnixMilli(0).UTC()
		if ev, err := cl.Event(); err == nil {
			at = ev.Time
		}
		ordered = append(ordered, keyed{log: cl, at: at})
		taken[cl.ID] = true
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].at.Equal(ordered[j].at) {
			return ordered[i].at.Before(ordered[j].at)
		}
		return ordered[i].log.ID < ordered[j].log.ID
	})

	var batch []rename
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if opts.Execute {
			if err := commitRenames(ctx, db, batch, opts.Retry); err != nil {
				return err
			}
			log.Info().Str("kind", string(kind)).Int("ops", 2*len(batch)).Msg("Log ID migration: committed batch")
		}
		res.Batches++
		batch = batch[:0]
		return nil
	}

	for _, k := range ordered {
		res.Processed++
		if models.IsSortableLogID(k.log.ID) {
			res.Skipped++
			metrics.LogMigrationTotal.WithLabelValues(string(kind), "skipped").Inc()
			continue
		}

		newID := models.LogIDFor(k.at, k.log.ID)
		for taken[newID] {
			newID = models.LogIDFor(k.at, models.RandomIDSuffix())
		}
		taken[newID] = true

		batch = append(batch, rename{log: k.log, newID: newID})
		res.Migrated++
		metrics.LogMigrationTotal.WithLabelValues(string(kind), "migrated").Inc()

		if 2*len(batch) >= opsPerBatch {
			if err := flush(); err != nil {
				return res, err
			}
		}
	}
	if err := flush(); err != nil {
		return res, err
	}

	log.Info().Str("kind", string(kind)).Int("processed", res.Processed).
		Int("migrated", res.Migrated).Int("skipped", res.Skipped).Bool("dry_run", res.DryRun).
		Msg("Log ID migration finished")
	return res, nil
}

func commitRenames(ctx context.Context, db *gorm.DB, batch []rename, retry func() backoff.BackOff) error {
	policy := defaultRetry()
	if retry != nil {
		policy = retry()
	}

	op := func() error {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, r := range batch {
				moved := r.log
				moved.ID = r.newID
				if err := tx.Create(&moved).Error; err != nil {
					return fmt.Errorf("copy %s to %s: %w", r.log.ID, r.newID, err)
				}
				if err := tx.Where("kind = ? AND id = ?", r.log.Kind, r.log.ID).Delete(&models.ChangeLog{}).Error; err != nil {
					return fmt.Errorf("delete %s: %w", r.log.ID, err)
				}
			}
			return nil
		})
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("Log ID migration: batch commit failed")
	}
	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify)
}

func defaultRetry() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(b, 5)
}
