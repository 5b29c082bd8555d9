package repository

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 需要真实 Redis: COUPON_TEST_REDIS=localhost:6379
func newTestRedis(t *testing.T) *redis.Client {
	addr := os.Getenv("COUPON_TEST_REDIS")
	if addr == "" {
		t.Skip("COUPON_TEST_REDIS not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(context.Background()).Err())
	return rdb
}

func TestFinalizeLock(t *testing.T) {
	rdb := newTestRedis(t)
	lock := NewFinalizeLock(rdb)
	ctx := context.Background()

	t.Run("holders never overlap", func(t *testing.T) {
		paymentID := "pay_" + uuid.New().String()[:8]
		var inside, maxInside int32
		var wg sync.WaitGroup

		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := lock.Acquire(ctx, paymentID, 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				release()
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxInside)
	})

	t.Run("waiter gives up when its context ends", func(t *testing.T) {
		paymentID := "pay_" + uuid.New().String()[:8]
		release, err := lock.Acquire(ctx, paymentID, 5*time.Second)
		require.NoError(t, err)
		defer release()

		waitCtx, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
		defer cancel()
		_, err = lock.Acquire(waitCtx, paymentID, 5*time.Second)

		assert.ErrorIs(t, err, ErrLockBusy)
	})

	t.Run("release keeps a lock taken over after expiry", func(t *testing.T) {
		paymentID := "pay_" + uuid.New().String()[:8]
		release, err := lock.Acquire(ctx, paymentID, 100*time.Millisecond)
		require.NoError(t, err)
		time.Sleep(150 * time.Millisecond)

		releaseB, err := lock.Acquire(ctx, paymentID, 5*time.Second)
		require.NoError(t, err)
		defer releaseB()

		release()

		exists, err := rdb.Exists(ctx, finalizeLockPrefix+paymentID).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})
}
