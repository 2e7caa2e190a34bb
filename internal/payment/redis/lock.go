package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Lock is a redis-backed per-order payment-create lock. It replaces
// the ad hoc in-process lock map: constructed once in main and passed
// to the payment coordinator, it also holds across replicas.
type Lock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewLock(client *redis.Client, ttl time.Duration) *Lock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Lock{Client: client, TTL: ttl}
}

func lockKey(orderID string) string {
	return "payment_create_lock:" + orderID
}

// Acquire takes the lock for the order. Returns false when another
// request holds it; the TTL bounds how long a crashed holder can block
// the order.
func (l *Lock) Acquire(ctx context.Context, orderID string) (bool, error) {
	ok, err := l.Client.SetNX(ctx, lockKey(orderID), orderID, l.TTL).Result()
	if err != nil {
		return false, fmt.Errorf("redis lock error: %w", err)
	}
	return ok, nil
}

// Release drops the lock if this order still holds it. An expired or
// foreign key is left alone.
func (l *Lock) Release(ctx context.Context, orderID string) error {
	key := lockKey(orderID)
	val, err := l.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil // already expired
	}
	if err != nil {
		return err
	}
	if val == orderID {
		_, err := l.Client.Del(ctx, key).Result()
		return err
	}
	return nil
}
