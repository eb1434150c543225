package lock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"food-marketplace/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

// assertMutualExclusion runs N workers on one key and checks that no two
// of them are ever inside the critical section at the same time.
func assertMutualExclusion(t *testing.T, l Locker) {
	t.Helper()

	const workers = 20
	var inside, maxInside, total int32

	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			unlock, err := l.Lock(ctx, "cart:buyer@example.com")
			if err != nil {
				return err
			}
			defer unlock()

			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&total, 1)
			atomic.AddInt32(&inside, -1)
			return nil
		})
	}

	require.NoError(t, g.Wait())
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, int32(workers), total)
}

func TestLocalLocker_MutualExclusion(t *testing.T) {
	assertMutualExclusion(t, NewLocalLocker())
}

func TestLocalLocker_IndependentKeys(t *testing.T) {
	l := NewLocalLocker()
	ctx := context.Background()

	unlockA, err := l.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	unlockB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker()

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // second call is a no-op

	unlock2, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock2()
	assert.Empty(t, l.(*localLocker).entries)
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	_, client := setupTestRedis(t)
	assertMutualExclusion(t, NewRedisLocker(client, "test:lock", 5*time.Second, logger.Discard()))
}

func TestRedisLocker_ReleaseKeepsForeignToken(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedisLocker(client, "test:lock", 5*time.Second, logger.Discard())

	unlock, err := l.Lock(context.Background(), "cart:a")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:lock:cart:a"))

	// simulate expiry and takeover by another replica
	require.NoError(t, mr.Set("test:lock:cart:a", "someone-else"))
	unlock()

	got, err := mr.Get("test:lock:cart:a")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	_, client := setupTestRedis(t)
	l := NewRedisLocker(client, "test:lock", 5*time.Second, logger.Discard())

	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock2, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	unlock2()
}
