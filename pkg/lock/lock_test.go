package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	data   map[string]string
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (f *fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) LockKey(name string) string {
	return "fs:lock:" + name
}

func TestRedisLockerExclusive(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	locker, err := NewRedisLocker(store, time.Minute)
	require.NoError(t, err)

	lease, ok, err := locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.False(t, ok, "second acquire must fail while held")

	require.NoError(t, lease.Release(ctx))
	require.NoError(t, lease.Release(ctx), "release is idempotent")

	again, ok, err := locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, again.Release(ctx))
}

func TestRedisLeaseDoesNotDeleteForeignOwner(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	locker, err := NewRedisLocker(store, time.Minute)
	require.NoError(t, err)

	lease, ok, err := locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.True(t, ok)

	// simulate TTL expiry followed by another instance taking the lock
	store.data["fs:lock:inventory:end_day"] = "someone-else"
	require.NoError(t, lease.Release(ctx))
	require.Equal(t, "someone-else", store.data["fs:lock:inventory:end_day"])
}

func TestRedisLockerErrors(t *testing.T) {
	_, err := NewRedisLocker(nil, time.Minute)
	require.Error(t, err)

	store := newFakeStore()
	store.setErr = errors.New("conn refused")
	locker, err := NewRedisLocker(store, 0)
	require.NoError(t, err)
	require.Equal(t, defaultTTL, locker.ttl)

	_, ok, err := locker.Acquire(context.Background(), "inventory:end_day")
	require.Error(t, err)
	require.False(t, ok)

	_, _, err = locker.Acquire(context.Background(), "")
	require.Error(t, err)
}

func TestLocalLocker(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	lease, ok, err := locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.False(t, ok)

	other, ok, err := locker.Acquire(ctx, "other")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, other.Release(ctx))

	require.NoError(t, lease.Release(ctx))
	_, ok, err = locker.Acquire(ctx, "inventory:end_day")
	require.NoError(t, err)
	require.True(t, ok)
}
