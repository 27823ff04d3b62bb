package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iho/contractledger/internal/domain"
)

// ScheduleLock implements usecase.ScheduleLocker using Redis SETNX. A lock
// expires after the TTL so a crashed pass cannot hold a schedule forever.
type ScheduleLock struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewScheduleLock creates a new ScheduleLock.
func NewScheduleLock(client *redis.Client, ttl time.Duration) *ScheduleLock {
	return &ScheduleLock{
		client: client,
		prefix: "schedule_lock:",
		ttl:    ttl,
	}
}

// Acquire takes the schedule lock. Returns domain.ErrScheduleLocked when
// another pass holds it.
func (l *ScheduleLock) Acquire(ctx context.Context, scheduleID string) (string, error) {
	token := uuid.NewString()

	set, err := l.client.SetNX(ctx, l.prefix+scheduleID, token, l.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("acquire schedule lock: %w", err)
	}

	if !set {
		return "", domain.ErrScheduleLocked
	}

	return token, nil
}

// Release frees the lock when the token still owns it. A lock taken over by
// another pass after expiry is left untouched.
func (l *ScheduleLock) Release(ctx context.Context, scheduleID, token string) error {
	key := l.prefix + scheduleID

	current, err := l.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil
		}

		return fmt.Errorf("release schedule lock: %w", err)
	}

	if current != token {
		return nil
	}

	return l.client.Del(ctx, key).Err()
}
