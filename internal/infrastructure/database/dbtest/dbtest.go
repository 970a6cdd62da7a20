// Package dbtest opens throwaway in-memory SQLite databases with the full schema.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/infrastructure/database"
	"github.com/orris-inc/permitgate/internal/infrastructure/migration"
	"github.com/orris-inc/permitgate/internal/shared/config"
)

// New returns a migrated in-memory database that lives until the test ends.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, migration.NewGormAutoMigrateStrategy().Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
