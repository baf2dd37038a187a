// Package testdb opens migrated in-memory sqlite databases for package tests.
package testdb

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/migrate"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Seeded reference rows created by the migrations.
var (
	DemoDonorID   = uuid.MustParse("9c0d2a4e-6f1b-4f5e-8a77-3c2b1d0e0001")
	DharaviZoneID = uuid.MustParse("5b1f7c1e-0a41-4c6e-9d0b-1f6f2a9b0001")
	GovandiZoneID = uuid.MustParse("5b1f7c1e-0a41-4c6e-9d0b-1f6f2a9b0002")
)

const DemoDonorEmail = "demo@foodbridge.org"

var seq atomic.Int64

// New returns a fully migrated sqlite database unique to the calling test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, seq.Add(1))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrate.Up(context.Background(), sqlDB, db.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

// NewClient wraps New in a db.Client.
func NewClient(t testing.TB) *db.Client {
	t.Helper()
	return db.NewFromGorm(New(t), db.DialectSQLite)
}

// ClearZones removes the seeded hunger zones.
func ClearZones(t testing.TB, conn *gorm.DB) {
	t.Helper()
	if err := conn.Exec("DELETE FROM hunger_zones").Error; err != nil {
		t.Fatalf("clear zones: %v", err)
	}
}
