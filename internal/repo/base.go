package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Base is embedded by the domain repositories. It carries the connection (pool or
// transaction) and the update shapes they share.
type Base struct {
	db *gorm.DB
}

// NewBase wraps db, which may be the pool or an open transaction.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx when one is given.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Bound reports whether the base wraps an open transaction rather than the pool.
func (b Base) Bound() bool {
	if b.db == nil || b.db.Statement == nil {
		return false
	}
	_, ok := b.db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// Increment adds each delta to its column in a single UPDATE (col = col + delta),
// so concurrent writers never lose updates. It returns the number of rows touched.
func (b Base) Increment(ctx context.Context, model any, deltas map[string]any, where string, args ...any) (int64, error) {
	if len(deltas) == 0 {
		return 0, fmt.Errorf("increment: no columns")
	}
	updates := make(map[string]any, len(deltas)+1)
	for col, delta := range deltas {
		if !isColumnName(col) {
			return 0, fmt.Errorf("increment: invalid column %q", col)
		}
		updates[col] = gorm.Expr(col+" + ?", delta)
	}
	updates["updated_at"] = time.Now().UTC()

	res := b.DB(ctx).Model(model).Where(where, args...).Updates(updates)
	return res.RowsAffected, res.Error
}

// Transition applies values to exactly the row matching where, which should pin
// both the id and the expected current state. It reports false when no row
// matched, meaning the row is missing or already moved on.
func (b Base) Transition(ctx context.Context, model any, values map[string]any, where string, args ...any) (bool, error) {
	res := b.DB(ctx).Model(model).Where(where, args...).Updates(values)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func isColumnName(col string) bool {
	if col == "" {
		return false
	}
	for _, r := range col {
		if r != '_' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
