package redisstore

import "context"

// NoopLimiter allows everything; used when RATE_LIMIT_BACKEND=none.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
