package campusAuth

import (
	"context"
	"errors"
	"fmt"
	"time"

	internalaudit "github.com/MrEthical07/campusAuth/internal/audit"
	"github.com/MrEthical07/campusAuth/internal/flows"
	"github.com/MrEthical07/campusAuth/internal/rate"
	"github.com/MrEthical07/campusAuth/jwt"
	"github.com/MrEthical07/campusAuth/password"
	"github.com/rs/zerolog"
)

// Engine is the campus authentication service: it logs users in, registers
// credentials and turns bearer tokens into principals. Build one with
// [New]; it is immutable afterwards and safe for concurrent use.
type Engine struct {
	config      Config
	store       CredentialStore
	tokens      *jwt.Manager
	passwords   *password.Verifier
	rateLimiter *rate.Limiter
	audit       *internalaudit.Dispatcher
	metrics     *Metrics
	logger      zerolog.Logger
	clock       func() time.Time
	flows       flows.Deps
}

// Close flushes pending audit events. The engine must not be used afterwards.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// AuditDropped reports how many audit events were discarded because the
// buffer was full.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	return cloneConfig(e.config)
}

// Logger returns the engine's logger so adapters can log in the same stream.
func (e *Engine) Logger() zerolog.Logger {
	return e.logger
}

// TokenTTL is the lifetime stamped on every issued token.
func (e *Engine) TokenTTL() time.Duration {
	return e.tokens.TTL()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) now() time.Time {
	if e == nil || e.clock == nil {
		return time.Now()
	}
	return e.clock()
}

// Login checks username and password and returns a signed token. Unknown
// usernames and wrong passwords both yield [ErrInvalidCredentials].
func (e *Engine) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	res, err := flows.RunLogin(ctx, username, password, e.flows.Login)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("username", res.Username).
		Str("role", res.Role).
		Msg("login succeeded")

	return &LoginResult{
		Token:     res.Token,
		Username:  res.Username,
		Role:      Role(res.Role),
		ExpiresAt: res.ExpiresAt,
	}, nil
}

// RegisterPrivileged creates a credential with the requested role (or the
// configured default). Authorization of the caller is the transport's job.
func (e *Engine) RegisterPrivileged(ctx context.Context, req RegisterRequest) (*Credential, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	rec, err := flows.RunRegister(ctx, flows.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     string(req.Role),
	}, e.flows.Register)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("username", rec.Username).
		Str("role", rec.Role).
		Msg("credential registered")

	return &Credential{
		ID:        rec.ID,
		Username:  rec.Username,
		Email:     rec.Email,
		Role:      Role(rec.Role),
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

// ResolvePrincipal verifies tokenStr and returns the principal it names.
//
// Errors wrap [ErrMalformedToken], [ErrExpiredToken] or [ErrInvalidToken].
// With Security.RevalidateRole set, the stored credential's current role
// replaces the token's and a vanished credential yields [ErrUnknownPrincipal].
func (e *Engine) ResolvePrincipal(ctx context.Context, tokenStr string) (*Principal, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}
	if e.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() {
			e.metrics.Observe(MetricValidateLatency, time.Since(start))
		}()
	}

	claims, err := e.tokens.Validate(tokenStr)
	if err != nil {
		e.metricInc(tokenFailureMetric(err))
		return nil, err
	}

	role := Role(claims.Role)
	if !role.Valid() {
		e.metricInc(MetricTokenInvalid)
		return nil, fmt.Errorf("%w: role %q", ErrInvalidToken, claims.Role)
	}

	if e.config.Security.RevalidateRole {
		cred, err := e.store.FindByUsername(ctx, claims.Subject)
		if errors.Is(err, ErrCredentialNotFound) {
			e.metricInc(MetricPrincipalUnknown)
			return nil, ErrUnknownPrincipal
		}
		if err != nil {
			e.logger.Error().Err(err).Msg("credential lookup during principal resolution failed")
			return nil, ErrCredentialStoreUnavailable
		}
		role = cred.Role
	}

	e.metricInc(MetricTokenValid)
	return newPrincipal(claims.Subject, role), nil
}

// RecordAccessDecision counts a guard outcome: nil for admitted,
// [ErrUnauthenticated] or [ErrForbidden] for denials.
func (e *Engine) RecordAccessDecision(err error) {
	switch {
	case err == nil:
		e.metricInc(MetricGuardAdmitted)
	case errors.Is(err, ErrUnauthenticated):
		e.metricInc(MetricGuardUnauthenticated)
	case errors.Is(err, ErrForbidden):
		e.metricInc(MetricGuardForbidden)
	}
}

// TokenFailureKind names the class of a ResolvePrincipal error for logs:
// "malformed", "expired", "invalid", "unknown_user", "unavailable" or
// "" for nil.
func TokenFailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrExpiredToken):
		return "expired"
	case errors.Is(err, ErrUnknownPrincipal):
		return "unknown_user"
	case errors.Is(err, ErrCredentialStoreUnavailable), errors.Is(err, ErrEngineNotReady):
		return "unavailable"
	default:
		return "invalid"
	}
}

func tokenFailureMetric(err error) MetricID {
	switch {
	case errors.Is(err, ErrMalformedToken):
		return MetricTokenMalformed
	case errors.Is(err, ErrExpiredToken):
		return MetricTokenExpired
	default:
		return MetricTokenInvalid
	}
}

func (e *Engine) issueToken(username, role string) (string, time.Time, error) {
	token, err := e.tokens.Issue(username, role)
	if err != nil {
		return "", time.Time{}, err
	}
	// exp is read back from the signed token, not recomputed.
	claims, err := e.tokens.Validate(token)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, claims.ExpiresAt.Time, nil
}
