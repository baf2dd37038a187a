package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/angelmondragon/foodbridge-backend/pkg/config"
	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

// shouldAutoRun gates boot-time migrations behind the feature flag. Postgres only
// migrates on boot in dev; a local sqlite file is always safe to bring up to date.
func shouldAutoRun(cfg *config.Config) bool {
	if cfg == nil || !cfg.FeatureFlags.AutoMigrate {
		return false
	}
	return cfg.App.IsDev() || cfg.DB.IsSQLite()
}

// MaybeRunDev applies the embedded migrations at process start when shouldAutoRun allows it.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !shouldAutoRun(cfg) {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	dialect := client.Dialect()
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dialect": dialect, "event": "migrate.autorun"})
	before, err := CurrentVersion(ctx, sqlDB, dialect)
	if err != nil {
		return err
	}
	if err := Up(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	after, err := CurrentVersion(ctx, sqlDB, dialect)
	if err != nil {
		return err
	}

	logg.Info(logg.WithFields(ctx, map[string]any{"from_version": before, "to_version": after}), "schema migrated on boot")
	return nil
}

// CurrentVersion reports the latest applied migration, creating goose's version table if needed.
func CurrentVersion(ctx context.Context, db *sql.DB, dialect string) (int64, error) {
	if err := prepare(dialect, EmbeddedDir); err != nil {
		return 0, err
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("get db version: %w", err)
	}
	return version, nil
}
