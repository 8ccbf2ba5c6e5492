package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/medigrid/ambudispatch/internal/models"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported database driver")
}

func TestAutoMigrateCreatesSchema(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, AutoMigrate(db))

	for _, table := range []string{"users", "hospitals", "ambulance_requests", "notifications"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSeedDataIsIdempotent(t *testing.T) {
	db, err := Open(Config{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, SeedData(db))
	require.NoError(t, SeedData(db))

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	require.Equal(t, DefaultAdminEmail, admins[0].Email)
	require.NotEqual(t, "admin123", admins[0].Password)
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "dispatch", Password: "pw", Name: "ambulance"})
	require.NoError(t, err)
	require.Equal(t, "dispatch:pw@tcp(127.0.0.1:3306)/ambulance?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	_, err = buildMySQLDSN(Config{Name: "ambulance"})
	require.Error(t, err)
}

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{User: "dispatch", Name: "ambulance"})
	require.NoError(t, err)
	require.Contains(t, dsn, "host=localhost")
	require.Contains(t, dsn, "dbname=ambulance")
	require.Contains(t, dsn, "sslmode=disable")

	override, err := buildPostgresDSN(Config{User: "dispatch", Name: "ambulance", Options: map[string]string{"sslmode": "require"}})
	require.NoError(t, err)
	require.Contains(t, override, "sslmode=require")
}
