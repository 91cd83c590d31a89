package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter counts requests per tenant in fixed windows. The window index is
// part of the key, so every window starts from zero.
type Limiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration

	now func() time.Time
}

func NewLimiter(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{Client: client, Limit: limit, Window: window, now: time.Now}
}

// Allow reports whether the tenant is still under its limit for the current
// window. Limit <= 0 disables limiting.
func (l *Limiter) Allow(ctx context.Context, tenantID string) (bool, error) {
	if l.Limit <= 0 {
		return true, nil
	}
	key := l.key(tenantID)
	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= int64(l.Limit), nil
}

func (l *Limiter) key(tenantID string) string {
	slot := l.now().UnixNano() / int64(l.Window)
	return fmt.Sprintf("ratelimit:bookings:%s:%d", tenantID, slot)
}

// Ping checks the connection at startup.
func Ping(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
