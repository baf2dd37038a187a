package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// The lease must expire before the next hourly tick so a crashed worker never
// blocks more than one cycle.
const defaultLockTTL = 55 * time.Minute

var errLockNotHeld = errors.New("cron lock not held")

// Lock coordinates exclusive cron cycles across worker replicas.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock is a lease stored under a single redis key. The value is a random
// owner token so a replica whose lease expired cannot drop a newer holder's key.
type RedisLock struct {
	store lockStore
	key   string
	ttl   time.Duration
	token string
	newID func() string
}

// NewRedisLock builds a lease on key. A non-positive ttl uses the default lease.
func NewRedisLock(store lockStore, key string, ttl time.Duration) (*RedisLock, error) {
	switch {
	case store == nil:
		return nil, errors.New("redis client required for lock")
	case key == "":
		return nil, errors.New("lock key is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RedisLock{store: store, key: key, ttl: ttl, newID: uuid.NewString}, nil
}

// Key returns the redis key guarding the lease.
func (l *RedisLock) Key() string { return l.key }

// Held reports whether this instance believes it owns the lease.
func (l *RedisLock) Held() bool { return l.token != "" }

// Acquire takes the lease when nobody holds it.
func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := l.newID()
	ok, err := l.store.SetNX(ctx, l.key, token, l.ttl)
	if err != nil {
		return false, fmt.Errorf("acquire %s: %w", l.key, err)
	}
	if ok {
		l.token = token
	}
	return ok, nil
}

// Release drops the lease if the stored token is still ours. Releasing an
// expired or foreign lease is a no-op.
func (l *RedisLock) Release(ctx context.Context) error {
	if !l.Held() {
		return nil
	}
	defer func() { l.token = "" }()

	err := l.verify(ctx)
	switch {
	case errors.Is(err, errLockNotHeld):
		return nil
	case err != nil:
		return err
	}
	if err := l.store.Del(ctx, l.key); err != nil {
		return fmt.Errorf("release %s: %w", l.key, err)
	}
	return nil
}

func (l *RedisLock) verify(ctx context.Context) error {
	current, err := l.store.Get(ctx, l.key)
	if errors.Is(err, redis.Nil) {
		return errLockNotHeld
	}
	if err != nil {
		return fmt.Errorf("read %s owner: %w", l.key, err)
	}
	if current != l.token {
		return errLockNotHeld
	}
	return nil
}
