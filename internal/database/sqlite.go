package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/packtracker/internal/models"
)

// Models lists every table AutoMigrate manages
func Models() []any {
	return []any{
		&models.Item{},
		&models.Category{},
		&models.SetMeta{},
		&models.ChangeLog{},
		&models.CollectionValueSnapshot{},
	}
}

// Open connects to the SQLite database at path, migrates the schema and
// runs the data migrations. SQL statements are logged only at debug level.
func Open(path, level string) (*gorm.DB, error) {
	gormLevel := logger.Warn
	if level == "debug" || level == "trace" {
		gormLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(gormLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	log.Info().Str("path", path).Msg("Database connected successfully")

	if err := cleanupDuplicateItems(db); err != nil {
		return nil, fmt.Errorf("cleanup duplicate items: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("data migrations: %w", err)
	}

	log.Info().Msg("Database migration completed")
	return db, nil
}

// OpenMemory opens a private, named in-memory database. The shared cache
// keeps every pooled connection on the same data.
func OpenMemory() (*gorm.DB, error) {
	return Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()), "warn")
}
