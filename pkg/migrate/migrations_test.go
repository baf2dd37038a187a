package migrate_test

import (
	"context"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/angelmondragon/foodbridge-backend/pkg/migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	require.NoError(t, migrate.ValidateEmbedded())
}

func TestDonationsMigrationEnforcesCategoryTimestamp(t *testing.T) {
	matches, err := fs.Glob(migrate.EmbeddedFS(), "migrations/*_create_donations.sql")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := fs.ReadFile(migrate.EmbeddedFS(), matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS donations",
		"CHECK (quantity_kg > 0)",
		"category = 'cooked' AND cooking_time IS NOT NULL AND expiry_date IS NULL",
		"category = 'raw' AND expiry_date IS NOT NULL AND cooking_time IS NULL",
		"DROP TABLE IF EXISTS donations",
	} {
		assert.True(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestUpAppliesSchemaAndSeedOnSQLite(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite3"))

	var zones int64
	require.NoError(t, conn.Table("hunger_zones").Count(&zones).Error)
	assert.Equal(t, int64(6), zones)

	var high int64
	require.NoError(t, conn.Table("hunger_zones").Where("priority_level = ?", "High").Count(&high).Error)
	assert.Equal(t, int64(2), high)

	var donors int64
	require.NoError(t, conn.Table("donor_profiles").Where("email = ?", "demo@foodbridge.org").Count(&donors).Error)
	assert.Equal(t, int64(1), donors)

	// Re-running is a no-op.
	require.NoError(t, migrate.Up(context.Background(), sqlDB, "sqlite3"))
}

func TestCurrentVersionTracksUp(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	before, err := migrate.CurrentVersion(ctx, sqlDB, "sqlite3")
	require.NoError(t, err)
	assert.Equal(t, int64(0), before)

	require.NoError(t, migrate.Up(ctx, sqlDB, "sqlite3"))
	after, err := migrate.CurrentVersion(ctx, sqlDB, "sqlite3")
	require.NoError(t, err)
	assert.Greater(t, after, before)
}
