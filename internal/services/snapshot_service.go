package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/metrics"
	"github.com/codyseavey/packtracker/internal/models"
)

// ItemLister is the part of the item store the snapshot worker reads
type ItemLister interface {
	ListItems(ctx context.Context, kind models.ItemKind) ([]models.Item, error)
}

// SnapshotService handles collection value snapshots
type SnapshotService struct {
	db    *gorm.DB
	items ItemLister
	now   func() time.Time

	mu            sync.RWMutex
	lastSnapshot  time.Time
	snapshotHour  int // Hour of day to take snapshot (0-23)
	checkInterval time.Duration
}

// NewSnapshotService creates a new snapshot service
func NewSnapshotService(db *gorm.DB, items ItemLister, snapshotHour int) *SnapshotService {
	return &SnapshotService{
		db:            db,
		items:         items,
		now:           time.Now,
		snapshotHour:  snapshotHour,
		checkInterval: 15 * time.Minute,
	}
}

// Start begins the background snapshot worker
func (s *SnapshotService) Start(ctx context.Context) {
	log.Info().Int("hour", s.snapshotHour).Msg("Snapshot service started: will record daily collection value")

	// Check if we need to take a snapshot for today on startup
	s.checkAndSnapshot(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Snapshot service stopping...")
			return
		case <-ticker.C:
			s.checkAndSnapshot(ctx)
		}
	}
}

// checkAndSnapshot takes today's snapshot once the configured hour has passed
func (s *SnapshotService) checkAndSnapshot(ctx context.Context) {
	now := s.now()
	if now.Hour() < s.snapshotHour {
		return
	}

	has, err := s.hasSnapshotForDate(ctx, now)
	if err != nil {
		log.Warn().Err(err).Msg("Snapshot service: failed to check for today's snapshot")
		return
	}
	if has {
		return
	}

	if _, err := s.TakeSnapshot(ctx); err != nil {
		log.Error().Err(err).Msg("Snapshot service: failed to take snapshot")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// hasSnapshotForDate checks if a snapshot exists for the given date
func (s *SnapshotService) hasSnapshotForDate(ctx context.Context, date time.Time) (bool, error) {
	day := startOfDay(date)

	var count int64
	err := s.db.WithContext(ctx).Model(&models.CollectionValueSnapshot{}).
		Where("snapshot_date >= ? AND snapshot_date < ?", day, day.AddDate(0, 0, 1)).
		Count(&count).Error
	return count > 0, err
}

// TakeSnapshot records the current collection value for today, replacing
// an earlier snapshot of the same day.
func (s *SnapshotService) TakeSnapshot(ctx context.Context) (models.CollectionValueSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	day := startOfDay(now)

	stats, err := s.CalculateStats(ctx)
	if err != nil {
		return models.CollectionValueSnapshot{}, err
	}

	snapshot := models.CollectionValueSnapshot{SnapshotDate: day}
	err = s.db.WithContext(ctx).
		Where("snapshot_date >= ? AND snapshot_date < ?", day, day.AddDate(0, 0, 1)).
		Assign(models.CollectionValueSnapshot{
			TotalCards:  stats.TotalCards,
			TotalSealed: stats.TotalSealed,
			UniqueItems: stats.UniqueItems,
			TotalValue:  stats.TotalValue,
			CardsValue:  stats.CardsValue,
			SealedValue: stats.SealedValue,
		}).
		FirstOrCreate(&snapshot).Error
	if err != nil {
		return snapshot, fmt.Errorf("save snapshot for %s: %w", day.Format("2006-01-02"), err)
	}

	s.lastSnapshot = now
	log.Info().Str("date", day.Format("2006-01-02")).Str("total", stats.TotalValue.StringFixed(2)).
		Int("cards", stats.TotalCards).Int("sealed", stats.TotalSealed).
		Msg("Snapshot service: recorded value snapshot")

	return snapshot, nil
}

// CalculateStats computes current collection statistics from owned amounts
// and unit costs, and publishes them as gauges.
func (s *SnapshotService) CalculateStats(ctx context.Context) (models.CollectionStats, error) {
	var stats models.CollectionStats

	cards, errCards := s.items.ListItems(ctx, models.ItemCards)
	sealed, errSealed := s.items.ListItems(ctx, models.ItemSealed)
	if err := errors.Join(errCards, errSealed); err != nil {
		return stats, fmt.Errorf("calculate stats: %w", err)
	}

	sum := func(items []models.Item) (owned int, value decimal.Decimal) {
		for _, it := range items {
			if it.AmountOwned > 0 {
				owned += it.AmountOwned
				stats.UniqueItems++
			}
			value = value.Add(it.TotalCost())
		}
		return owned, value
	}
	stats.TotalCards, stats.CardsValue = sum(cards)
	stats.TotalSealed, stats.SealedValue = sum(sealed)
	stats.TotalValue = stats.CardsValue.Add(stats.SealedValue)

	metrics.CollectionItemsByKind.WithLabelValues(string(models.ItemCards)).Set(float64(stats.TotalCards))
	metrics.CollectionItemsByKind.WithLabelValues(string(models.ItemSealed)).Set(float64(stats.TotalSealed))
	metrics.CollectionValueByKind.WithLabelValues(string(models.ItemCards)).Set(stats.CardsValue.InexactFloat64())
	metrics.CollectionValueByKind.WithLabelValues(string(models.ItemSealed)).Set(stats.SealedValue.InexactFloat64())
	metrics.CollectionValue.Set(stats.TotalValue.InexactFloat64())

	return stats, nil
}

// GetHistory retrieves value snapshots for a given period
func (s *SnapshotService) GetHistory(ctx context.Context, period string) ([]models.CollectionValueSnapshot, error) {
	var snapshots []models.CollectionValueSnapshot

	now := s.now()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
		startDate = time.Time{} // No filter
	default:
		startDate = now.AddDate(0, -1, 0) // Default to 1 month
	}

	query := s.db.WithContext(ctx).Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}

	return snapshots, nil
}

// GetLastSnapshot returns the most recent snapshot
func (s *SnapshotService) GetLastSnapshot(ctx context.Context) *models.CollectionValueSnapshot {
	var snapshot models.CollectionValueSnapshot

	if err := s.db.WithContext(ctx).Order("snapshot_date DESC").First(&snapshot).Error; err != nil {
		return nil
	}

	return &snapshot
}
