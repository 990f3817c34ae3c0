package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultTTL = 2 * time.Minute

// Locker hands out exclusive leases on named operations.
type Locker interface {
	Acquire(ctx context.Context, name string) (Lease, bool, error)
}

// Lease is a held lock. Release is idempotent.
type Lease interface {
	Release(ctx context.Context) error
}

// redisStore defines the operations used by RedisLocker.
type redisStore interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// RedisLocker implements Locker using Redis SETNX + TTL so that every API
// instance observes the same lock.
type RedisLocker struct {
	client redisStore
	ttl    time.Duration
}

// NewRedisLocker constructs a Redis-backed locker.
func NewRedisLocker(client redisStore, ttl time.Duration) (*RedisLocker, error) {
	if client == nil {
		return nil, errors.New("redis client required for lock")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisLocker{client: client, ttl: ttl}, nil
}

// Acquire tries to own the named lock for the configured TTL.
func (l *RedisLocker) Acquire(ctx context.Context, name string) (Lease, bool, error) {
	if name == "" {
		return nil, false, errors.New("lock name is required")
	}
	key := l.client.LockKey(name)
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, key, owner, l.ttl)
	if err != nil {
		return nil, false, fmt.Errorf("setnx: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return &redisLease{client: l.client, key: key, owner: owner}, true, nil
}

type redisLease struct {
	mu     sync.Mutex
	client redisStore
	key    string
	owner  string
}

// Release frees the lock only if the owner value still matches.
func (l *redisLease) Release(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			l.owner = ""
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		l.owner = ""
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}

// LocalLocker is an in-process Locker for single-instance deployments
// running without Redis.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]struct{})}
}

func (l *LocalLocker) Acquire(_ context.Context, name string) (Lease, bool, error) {
	if name == "" {
		return nil, false, errors.New("lock name is required")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[name]; taken {
		return nil, false, nil
	}
	l.held[name] = struct{}{}
	return &localLease{parent: l, name: name}, true, nil
}

type localLease struct {
	once   sync.Once
	parent *LocalLocker
	name   string
}

func (l *localLease) Release(context.Context) error {
	l.once.Do(func() {
		l.parent.mu.Lock()
		delete(l.parent.held, l.name)
		l.parent.mu.Unlock()
	})
	return nil
}
