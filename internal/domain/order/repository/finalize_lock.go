package repository

import (
	"context"
	"errors"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockBusy 等待期间锁一直被其他确认持有
var ErrLockBusy = errors.New("finalize lock is held by another confirmation")

const finalizeLockPrefix = "order:finalize:"

// 只删除自己持有的锁，避免过期后误删他人的锁
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// FinalizeLock 按支付号串行化下单确认
type FinalizeLock struct {
	rdb   *redis.Client
	retry time.Duration
}

func NewFinalizeLock(rdb *redis.Client) *FinalizeLock {
	return &FinalizeLock{rdb: rdb, retry: 50 * time.Millisecond}
}

// Acquire 阻塞直到拿到锁或 ctx 结束。ttl 应覆盖一次完整确认的耗时
func (l *FinalizeLock) Acquire(ctx context.Context, paymentID string, ttl time.Duration) (func(), error) {
	key := finalizeLockPrefix + paymentID
	token := uuid.New().String()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ErrLockBusy
			}
			return nil, err
		}
		if ok {
			return func() { l.release(ctx, key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockBusy
		case <-ticker.C:
		}
	}
}

func (l *FinalizeLock) release(ctx context.Context, key, token string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		logger.Log.Warn("release finalize lock failed", zap.String("key", key), zap.Error(err))
	}
}
