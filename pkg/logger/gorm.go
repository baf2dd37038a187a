package logger

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm output through the structured logger. Only slow
// statements and real failures are written; missing rows are a normal
// outcome for lookups and stay quiet.
type GormLogger struct {
	logg          *Logger
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

// NewGormLogger builds a gorm logger. A zero threshold disables slow query logs.
func NewGormLogger(logg *Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{logg: logg, slowThreshold: slowThreshold, level: gormlogger.Warn}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Info && g.logg != nil {
		g.logg.Info(g.logg.WithField(ctx, "args", args), "gorm: "+msg)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Warn && g.logg != nil {
		g.logg.Warn(g.logg.WithField(ctx, "args", args), "gorm: "+msg)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.level >= gormlogger.Error && g.logg != nil {
		g.logg.Error(g.logg.WithField(ctx, "args", args), "gorm: "+msg, nil)
	}
}

func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.logg == nil || g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && g.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.logg.Error(g.queryContext(ctx, sql, rows, elapsed), "db.query_failed", err)
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.logg.Warn(g.queryContext(ctx, sql, rows, elapsed), "db.slow_query")
	case g.level >= gormlogger.Info && g.logg.Enabled(zerolog.DebugLevel):
		sql, rows := fc()
		g.logg.Debug(g.queryContext(ctx, sql, rows, elapsed), "db.query")
	}
}

func (g *GormLogger) queryContext(ctx context.Context, sql string, rows int64, elapsed time.Duration) context.Context {
	return g.logg.WithFields(ctx, map[string]any{
		"sql":        sql,
		"rows":       rows,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
	})
}
