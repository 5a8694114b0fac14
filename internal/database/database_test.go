package database_test

import (
	"fmt"
	"testing"

	"liberty/internal/config"
	"liberty/internal/database"
	"liberty/internal/logger"
	"liberty/internal/models"
	"liberty/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open(config.Database{Driver: config.DriverMemory})
	assert.Error(t, err)
}

func TestMigrateAndSeed(t *testing.T) {
	db, err := database.Open(config.Database{Driver: config.DriverSQLite, DSN: memoryDSN()})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	assert.True(t, db.Migrator().HasTable("products"))
	assert.True(t, db.Migrator().HasTable("categories"))
	assert.True(t, db.Migrator().HasConstraint(&models.Product{}, "chk_products_price"))
	assert.True(t, db.Migrator().HasConstraint(&models.Product{}, "chk_products_rating"))

	repo := repositories.NewGORMCategoryRepository(db)
	require.NoError(t, database.SeedCategories(repo, logger.Discard()))
	// A second run must not duplicate the set.
	require.NoError(t, database.SeedCategories(repo, logger.Discard()))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(len(database.DefaultCategories)), count)
}
