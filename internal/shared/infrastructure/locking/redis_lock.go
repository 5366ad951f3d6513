// Package locking serializes placement requests per user so that two
// concurrent decide-then-persist cycles cannot produce overlapping items.
package locking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("placement already in progress for user")

// UserLocker acquires an exclusive per-user lock around a placement.
type UserLocker interface {
	// Acquire takes the lock for the user, returning a release function.
	Acquire(ctx context.Context, userID uuid.UUID) (release func(), err error)
}

// RedisLocker implements UserLocker with a Redis SET NX lease. The lease
// expires on its own if the holder dies mid-placement.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker with the given lease duration.
func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl}
}

func lockKey(userID uuid.UUID) string {
	return fmt.Sprintf("taskflow:placement:lock:%s", userID)
}

// Acquire takes the per-user placement lock or fails with ErrLockHeld.
func (l *RedisLocker) Acquire(ctx context.Context, userID uuid.UUID) (func(), error) {
	key := lockKey(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire placement lock: %w", err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func() {
		// Delete only if we still hold the lease.
		const script = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`
		_ = l.client.Eval(context.Background(), script, []string{key}, token).Err()
	}
	return release, nil
}

// LocalLocker implements UserLocker with in-process mutexes. Used when no
// Redis is configured; sufficient for the single-process CLI.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewLocalLocker creates an in-process locker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// Acquire takes the per-user mutex, blocking until available.
func (l *LocalLocker) Acquire(_ context.Context, userID uuid.UUID) (func(), error) {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock, nil
}
