package rate

import "errors"

var (
	// ErrRateLimited means the caller exhausted its login budget for the window.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps any Redis transport or command failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
