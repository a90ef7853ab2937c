package main

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/config"
	"github.com/codyseavey/packtracker/internal/database"
	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/services"
	"github.com/codyseavey/packtracker/internal/stats"
	"github.com/codyseavey/packtracker/internal/store"
)

var jungle = models.SetRef{Language: "English", Category: "Base", Set: "Jungle"}

func TestMain(m *testing.M) {
	cfg = &config.Config{Currency: "USD", ImportWritesPerSecond: 1000, SnapshotHour: 23}
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) (*gorm.DB, *store.GormStore) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, store.New(db)
}

func TestRunImport(t *testing.T) {
	ctx := context.Background()
	_, st := newTestDB(t)
	_, err := st.CreateSet(ctx, models.SetMeta{Language: "English", Category: "Base", Name: "Jungle", CanImportCards: true})
	require.NoError(t, err)
	im := importer.New(st, 1000)

	t.Run("cards", func(t *testing.T) {
		var out bytes.Buffer
		opts := importOptions{ref: jungle, kind: "cards", mode: "all"}
		require.NoError(t, runImport(ctx, st, im, "jungle.csv", []byte("Pikachu,60,1.50\nSnorlax,27,40\n"), opts, &out))
		assert.Contains(t, out.String(), "Imported 2 cards into Base / Jungle (2 new, mode all)")

		items, err := st.ListSetItems(ctx, jungle, models.ItemCards)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("sealed disabled", func(t *testing.T) {
		opts := importOptions{ref: jungle, kind: "sealed", mode: "all"}
		err := runImport(ctx, st, im, "sealed.csv", []byte("Booster Box,300\n"), opts, &bytes.Buffer{})
		assert.ErrorContains(t, err, "disabled")
	})

	t.Run("sealed forced", func(t *testing.T) {
		opts := importOptions{ref: jungle, kind: "sealed", mode: "prices", force: true}
		require.NoError(t, runImport(ctx, st, im, "sealed.csv", []byte("Booster Box,300\n"), opts, &bytes.Buffer{}))
	})

	t.Run("missing set", func(t *testing.T) {
		opts := importOptions{ref: models.SetRef{Language: "English", Category: "Base", Set: "Fossil"}, kind: "cards", mode: "all"}
		err := runImport(ctx, st, im, "x.csv", []byte("Pikachu,60,1\n"), opts, &bytes.Buffer{})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("bad mode", func(t *testing.T) {
		opts := importOptions{ref: jungle, kind: "cards", mode: "everything"}
		assert.Error(t, runImport(ctx, st, im, "x.csv", []byte("Pikachu,60,1\n"), opts, &bytes.Buffer{}))
	})
}

func TestRunMigrateLogsDryRun(t *testing.T) {
	db, _ := newTestDB(t)
	require.NoError(t, db.Create(&models.ChangeLog{
		ID:         "legacy1",
		Kind:       models.CardLog,
		TimeMillis: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(),
		Body:       `{"time":"2025-01-01T00:00:00Z","items":[]}`,
	}).Error)

	var out bytes.Buffer
	require.NoError(t, runMigrateLogs(context.Background(), db, []string{"cards", "sealed"}, false, &out))
	assert.Contains(t, out.String(), "card (DRY RUN - no changes made)")
	assert.Contains(t, out.String(), "Migrated:  1")

	var count int64
	require.NoError(t, db.Model(&models.ChangeLog{}).Where("id = ?", "legacy1").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.Error(t, runMigrateLogs(context.Background(), db, []string{"bogus"}, false, &bytes.Buffer{}))
}

func TestRunStatsPlain(t *testing.T) {
	_, st := newTestDB(t)
	var out bytes.Buffer
	require.NoError(t, runStats(context.Background(), stats.NewService(st, st), models.RangeWeek, true, &out))
	assert.Contains(t, out.String(), "# Collection value (7D)")
	assert.Contains(t, out.String(), "**Now:** $0.00")
}

func TestStatsReport(t *testing.T) {
	s := &models.Series{
		Range:       models.RangeDay,
		TotalNow:    decimal.RequireFromString("1500"),
		Baseline:    decimal.RequireFromString("1234.5"),
		BucketWidth: 15 * time.Minute,
		Events:      3,
		Malformed:   1,
		Points: []models.TimeSeriesPoint{
			{X: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC).UnixMilli(), Y: decimal.RequireFromString("1234.5")},
			{X: time.Date(2025, 1, 17, 12, 0, 0, 0, time.UTC).UnixMilli(), Y: decimal.RequireFromString("1500")},
		},
	}
	md := statsReport(s, "USD")
	assert.Contains(t, md, "**Start of range:** $1,234.50")
	assert.Contains(t, md, "**Change:** $265.50")
	assert.Contains(t, md, "unreadable times:** 1")
	assert.Contains(t, md, "| 2025-01-17 12:00 | $1,500.00 |")
}

func TestSamplePoints(t *testing.T) {
	pts := make([]models.TimeSeriesPoint, 100)
	for i := range pts {
		pts[i].X = int64(i)
	}

	got := samplePoints(pts, 10)
	require.Len(t, got, 10)
	assert.EqualValues(t, 0, got[0].X)
	assert.EqualValues(t, 99, got[9].X)

	assert.Len(t, samplePoints(pts[:5], 10), 5)
}

func TestRunSnapshot(t *testing.T) {
	ctx := context.Background()
	db, st := newTestDB(t)
	require.NoError(t, db.Create(&models.Item{
		Kind: models.ItemSealed, Language: "English", Category: "Base", SetName: "Jungle",
		Name: "Booster Box", AmountOwned: 2, Cost: decimal.RequireFromString("300"),
	}).Error)
	svc := services.NewSnapshotService(db, st, 23)

	var out bytes.Buffer
	require.NoError(t, runSnapshot(ctx, svc, "", &out))
	assert.Contains(t, out.String(), "$600.00")

	out.Reset()
	require.NoError(t, runSnapshot(ctx, svc, "all", &out))
	assert.Contains(t, out.String(), "1 unique")
}
