package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/medigrid/ambudispatch/internal/database"
)

type setupLevel int

const (
	setupBare setupLevel = iota
	setupMigrated
	setupSeeded
)

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*setupLevel)

// WithAutoMigrate applies the schema after opening the test database.
func WithAutoMigrate() TestDBOption {
	return func(level *setupLevel) {
		if *level < setupMigrated {
			*level = setupMigrated
		}
	}
}

// WithSeedData applies the schema and seeds the default admin account.
func WithSeedData() TestDBOption {
	return func(level *setupLevel) {
		*level = setupSeeded
	}
}

// MustOpenTestDB opens an in-memory SQLite database for tests. The connection
// is closed via t.Cleanup, which also discards the shared in-memory store so
// consecutive tests start empty.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	level := setupBare
	for _, opt := range opts {
		opt(&level)
	}

	db, err := database.Open(database.Config{Driver: "sqlite"})
	require.NoError(t, err)

	switch level {
	case setupSeeded:
		require.NoError(t, database.AutoMigrateAndSeed(db))
	case setupMigrated:
		require.NoError(t, database.AutoMigrate(db))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
