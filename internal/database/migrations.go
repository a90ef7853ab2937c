package database

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/codyseavey/packtracker/internal/models"
)

// cleanupDuplicateItems removes duplicate items before the unique index is added.
// This runs BEFORE AutoMigrate to prevent constraint violations.
func cleanupDuplicateItems(db *gorm.DB) error {
	if !db.Migrator().HasTable("items") {
		return nil
	}

	// Keep the most recently updated row of each document
	result := db.Exec(`
		DELETE FROM items
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM items
			GROUP BY kind, language, category, set_name, name
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Warn().Int64("rows", result.RowsAffected).Msg("Cleaned up duplicate items")
	}
	return nil
}

// RunMigrations runs any custom data migrations after schema changes.
// Each one only touches rows that still need it, so it is safe to run on
// every start.
func RunMigrations(db *gorm.DB) error {
	if err := migratePrintingField(db); err != nil {
		return err
	}
	if err := backfillLogTimes(db); err != nil {
		return err
	}
	return nil
}

// migratePrintingField gives cards without a printing the 'Normal' default
// so their identities match log entries written by the quick editor.
func migratePrintingField(db *gorm.DB) error {
	result := db.Exec(`UPDATE items SET printing = 'Normal' WHERE kind = ? AND (printing IS NULL OR printing = '')`, models.ItemCards)
	if result.Error != nil {
		log.Warn().Err(result.Error).Msg("Failed to normalize printing values")
		return nil
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("rows", result.RowsAffected).Msg("Normalized empty card printings")
	}
	return nil
}

// backfillLogTimes derives time_millis for logs inserted without it, e.g.
// bulk loads of exported documents. Logs whose time cannot be parsed stay
// at 0.
func backfillLogTimes(db *gorm.DB) error {
	var logs []models.ChangeLog
	if err := db.Where("time_millis = 0").Find(&logs).Error; err != nil {
		return err
	}

	updated := 0
	for _, cl := range logs {
		ev, err := cl.Event()
		if err != nil || !ev.TimeValid {
			continue
		}
		err = db.Model(&models.ChangeLog{}).
			Where("kind = ? AND id = ?", cl.Kind, cl.ID).
			Update("time_millis", ev.Time.UnixMilli()).Error
		if err != nil {
			return err
		}
		updated++
	}

	if updated > 0 {
		log.Info().Int("logs", updated).Int("unparseable", len(logs)-updated).Msg("Backfilled log times")
	}
	return nil
}
