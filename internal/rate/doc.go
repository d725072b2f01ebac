// Package rate throttles failed logins with Redis fixed-window counters.
//
// # Window semantics
//
// INCR, then EXPIRE only when the counter was just created. Keys, under the
// configured prefix:
//   - cl:<username>  failed logins for a username (lower-cased)
//   - cli:<ip>       failed logins from a client IP
//
// Errors are [ErrRateLimited] or a wrapped [ErrRedisUnavailable]; callers
// decide whether an unavailable Redis fails open or closed.
package rate
