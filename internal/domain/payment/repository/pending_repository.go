package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/model"

	"github.com/redis/go-redis/v9"
)

var ErrPendingNotFound = errors.New("pending intent not found")

const pendingKeyPrefix = "payment:pending:"

type PendingRepository interface {
	Save(ctx context.Context, p *model.PendingIntent, ttl time.Duration) error
	Get(ctx context.Context, intentID string) (*model.PendingIntent, error)
	Delete(ctx context.Context, intentID string) error
}

type pendingRepository struct {
	rdb *redis.Client
}

func NewPendingRepository(rdb *redis.Client) PendingRepository {
	return &pendingRepository{rdb: rdb}
}

func pendingKey(intentID string) string {
	return pendingKeyPrefix + intentID
}

func (r *pendingRepository) Save(ctx context.Context, p *model.PendingIntent, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pending intent: %w", err)
	}
	return r.rdb.Set(ctx, pendingKey(p.IntentID), data, ttl).Err()
}

func (r *pendingRepository) Get(ctx context.Context, intentID string) (*model.PendingIntent, error) {
	data, err := r.rdb.Get(ctx, pendingKey(intentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPendingNotFound
	}
	if err != nil {
		return nil, err
	}

	var p model.PendingIntent
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal pending intent: %w", err)
	}
	return &p, nil
}

func (r *pendingRepository) Delete(ctx context.Context, intentID string) error {
	return r.rdb.Del(ctx, pendingKey(intentID)).Err()
}
