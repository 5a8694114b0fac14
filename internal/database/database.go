package database

import (
	"fmt"
	"log/slog"

	"liberty/internal/config"
	"liberty/internal/models"
	"liberty/internal/repositories"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultCategories is the reference set seeded into an empty categories table.
var DefaultCategories = []string{"Chairs", "Tables", "Lighting", "Decor"}

// Open connects to the database selected by cfg.Driver.
func Open(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no SQL database", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the categories and products tables, including the
// price and rating check constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Category{}, &models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// SeedCategories inserts DefaultCategories when the repository is empty.
func SeedCategories(repo repositories.CategoryRepository, log *slog.Logger) error {
	count, err := repo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, name := range DefaultCategories {
		category := models.Category{Name: name}
		if err := repo.Create(&category); err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
		log.Debug("seeded category", "id", category.ID, "name", category.Name)
	}
	return nil
}
