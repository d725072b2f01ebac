package rate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds login throttle tuning.
type Config struct {
	// Prefix namespaces every key, e.g. "campus:".
	Prefix           string
	EnableIPThrottle bool
	MaxLoginAttempts int
	Cooldown         time.Duration
}

// Limiter counts failed logins per username and optionally per client IP
// in fixed Redis windows.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

func New(client redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: client, config: cfg}
}

// Check returns ErrRateLimited once either counter has reached the budget.
func (l *Limiter) Check(ctx context.Context, username, ip string) error {
	for _, key := range l.keys(username, ip) {
		count, err := l.redis.Get(ctx, key).Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		if count >= int64(l.config.MaxLoginAttempts) {
			return ErrRateLimited
		}
	}
	return nil
}

// RecordFailure bumps every applicable counter. The window starts at the
// first failure and is not extended by later ones. INCR and EXPIRE NX run
// in one MULTI so a counter never outlives its window, and a key left
// without a TTL picks one up on the next failure.
func (l *Limiter) RecordFailure(ctx context.Context, username, ip string) error {
	keys := l.keys(username, ip)
	_, err := l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, l.config.Cooldown)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Reset clears the username counter after a successful login. The IP
// counter is left alone so one good account cannot launder a sprayer's IP.
func (l *Limiter) Reset(ctx context.Context, username string) error {
	if err := l.redis.Del(ctx, l.userKey(username)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Attempts returns the failure count recorded for username.
func (l *Limiter) Attempts(ctx context.Context, username string) (int, error) {
	count, err := l.redis.Get(ctx, l.userKey(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(count), nil
}

func (l *Limiter) keys(username, ip string) []string {
	keys := []string{l.userKey(username)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, l.config.Prefix+"cli:"+ip)
	}
	return keys
}

func (l *Limiter) userKey(username string) string {
	return l.config.Prefix + "cl:" + strings.ToLower(username)
}
