package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/campusAuth/internal/rate"
)

// LoginResult is the flow-local login response shape.
type LoginResult struct {
	Token     string
	Username  string
	Role      string
	ExpiresAt time.Time
}

// LoginCredential is the flow-local view of a stored credential.
type LoginCredential struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
}

// LoginMetrics carries metric IDs used by the login flow.
type LoginMetrics struct {
	LoginSuccess     int
	LoginFailure     int
	LoginRateLimited int
	RateLimitHit     int
	PasswordUpgraded int
	TokenIssued      int
}

// LoginEvents carries audit event names used by the login flow.
type LoginEvents struct {
	LoginSuccess     string
	LoginFailure     string
	LoginRateLimited string
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	EngineNotReady         error
	InvalidCredentials     error
	LoginRateLimited       error
	RateLimiterUnavailable error
	CredentialNotFound     error
	StoreUnavailable       error
	TokenIssueFailed       error
}

// LoginDeps captures login dependencies. Throttle funcs may be nil when
// throttling is disabled.
type LoginDeps struct {
	PasswordUpgradeOnLogin bool

	ClientIPFromContext func(context.Context) string

	CheckLoginRate     func(context.Context, string, string) error
	RecordLoginFailure func(context.Context, string, string) error
	ResetLoginRate     func(context.Context, string) error

	FindCredential func(context.Context, string) (LoginCredential, error)
	UpdateHash     func(context.Context, LoginCredential, string) error

	VerifyPassword       func(string, string) (bool, error)
	DummyVerify          func(string)
	PasswordNeedsUpgrade func(string) bool
	HashPassword         func(string) (string, error)

	IssueToken func(username, role string) (string, time.Time, error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, username, role string, err error, metadata func() map[string]string)
	Warn      func(msg string, err error)

	Metrics LoginMetrics
	Events  LoginEvents
	Errors  LoginErrors
}

// RunLogin verifies username/password and mints a token. Unknown usernames
// and wrong passwords return the same InvalidCredentials error after the
// same amount of hashing work.
func RunLogin(ctx context.Context, username, password string, deps LoginDeps) (*LoginResult, error) {
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, error) {}
	}
	if deps.ClientIPFromContext == nil {
		deps.ClientIPFromContext = func(context.Context) string { return "" }
	}
	if deps.DummyVerify == nil {
		deps.DummyVerify = func(string) {}
	}
	if deps.FindCredential == nil ||
		deps.VerifyPassword == nil ||
		deps.IssueToken == nil {
		return nil, deps.Errors.EngineNotReady
	}

	ip := deps.ClientIPFromContext(ctx)

	if deps.CheckLoginRate != nil {
		if err := deps.CheckLoginRate(ctx, username, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				deps.MetricInc(deps.Metrics.LoginRateLimited)
				deps.MetricInc(deps.Metrics.RateLimitHit)
				deps.EmitAudit(ctx, deps.Events.LoginRateLimited, false, username, "", deps.Errors.LoginRateLimited, func() map[string]string {
					return map[string]string{"ip": ip}
				})
				return nil, deps.Errors.LoginRateLimited
			}
			deps.Warn("login throttle check failed", err)
			return nil, deps.Errors.RateLimiterUnavailable
		}
	}

	fail := func(reason string) (*LoginResult, error) {
		if deps.RecordLoginFailure != nil {
			if err := deps.RecordLoginFailure(ctx, username, ip); err != nil {
				deps.Warn("login throttle increment failed", err)
			}
		}
		deps.MetricInc(deps.Metrics.LoginFailure)
		deps.EmitAudit(ctx, deps.Events.LoginFailure, false, username, "", deps.Errors.InvalidCredentials, func() map[string]string {
			return map[string]string{"reason": reason}
		})
		return nil, deps.Errors.InvalidCredentials
	}

	if username == "" || password == "" {
		deps.DummyVerify(password)
		return fail("empty_input")
	}

	cred, err := deps.FindCredential(ctx, username)
	if err != nil {
		if errors.Is(err, deps.Errors.CredentialNotFound) {
			deps.DummyVerify(password)
			return fail("unknown_user")
		}
		deps.Warn("credential lookup failed", err)
		return nil, deps.Errors.StoreUnavailable
	}

	ok, err := deps.VerifyPassword(password, cred.PasswordHash)
	if err != nil {
		deps.Warn("stored password hash rejected", err)
	}
	if err != nil || !ok {
		return fail("password_mismatch")
	}

	if deps.PasswordUpgradeOnLogin && deps.PasswordNeedsUpgrade != nil && deps.HashPassword != nil && deps.UpdateHash != nil {
		if deps.PasswordNeedsUpgrade(cred.PasswordHash) {
			if upgraded, err := deps.HashPassword(password); err != nil {
				deps.Warn("password hash upgrade failed", err)
			} else if err := deps.UpdateHash(ctx, cred, upgraded); err != nil {
				deps.Warn("password hash upgrade not saved", err)
			} else {
				deps.MetricInc(deps.Metrics.PasswordUpgraded)
			}
		}
	}
	password = ""

	token, expiresAt, err := deps.IssueToken(cred.Username, cred.Role)
	if err != nil {
		deps.Warn("token issuance failed", err)
		return nil, deps.Errors.TokenIssueFailed
	}
	deps.MetricInc(deps.Metrics.TokenIssued)

	if deps.ResetLoginRate != nil {
		if err := deps.ResetLoginRate(ctx, username); err != nil {
			deps.Warn("login throttle reset failed", err)
		}
	}

	deps.MetricInc(deps.Metrics.LoginSuccess)
	deps.EmitAudit(ctx, deps.Events.LoginSuccess, true, cred.Username, cred.Role, nil, func() map[string]string {
		return map[string]string{"ip": ip}
	})

	return &LoginResult{
		Token:     token,
		Username:  cred.Username,
		Role:      cred.Role,
		ExpiresAt: expiresAt,
	}, nil
}
