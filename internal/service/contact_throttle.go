package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ContactThrottle limits how many submissions one client may make per window.
type ContactThrottle interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
}

type redisContactThrottle struct {
	client *redis.Client
	max    int64
	window time.Duration
	logger zerolog.Logger
}

// NewContactThrottle constructs a fixed-window throttle on Redis. A nil client
// yields a throttle that allows everything.
func NewContactThrottle(client *redis.Client, limit int, window time.Duration, logger zerolog.Logger) ContactThrottle {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 10 * time.Minute
	}
	return &redisContactThrottle{
		client: client,
		max:    int64(limit),
		window: window,
		logger: logger.With().Str("component", "contact_throttle").Logger(),
	}
}

// Allow counts the attempt and reports whether it is within the limit. Redis
// errors are returned alongside an allowing verdict.
func (t *redisContactThrottle) Allow(ctx context.Context, clientKey string) (bool, error) {
	if t.client == nil || clientKey == "" {
		return true, nil
	}

	key := fmt.Sprintf("contact:throttle:%s", clientKey)
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return true, fmt.Errorf("increment throttle counter: %w", err)
	}
	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return true, fmt.Errorf("expire throttle counter: %w", err)
		}
	}

	if count > t.max {
		t.logger.Debug().Str("client", clientKey).Int64("attempts", count).Msg("submission throttled")
		return false, nil
	}
	return true, nil
}
