package campusAuth

import (
	"errors"

	"github.com/MrEthical07/campusAuth/jwt"
)

// Token validation outcomes. These are the jwt package sentinels so that
// errors.Is works across both packages.
var (
	ErrMalformedToken = jwt.ErrMalformedToken
	ErrExpiredToken   = jwt.ErrExpiredToken
	ErrInvalidToken   = jwt.ErrInvalidToken
)

var (
	// ErrInvalidCredentials is the only error a failed login reveals, whether
	// the username is unknown or the password wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginRateLimited   = errors.New("login rate limited")
	// ErrRateLimiterUnavailable means the throttle backend could not be
	// consulted; logins fail closed.
	ErrRateLimiterUnavailable = errors.New("login throttle unavailable")
	ErrTokenIssueFailed       = errors.New("token issuance failed")

	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrRegistrationInvalid = errors.New("invalid registration request")
	ErrPasswordPolicy      = errors.New("password policy violation")
	ErrInvalidRole         = errors.New("invalid role")

	// ErrCredentialNotFound is returned by CredentialStore implementations.
	ErrCredentialNotFound = errors.New("credential not found")
	// ErrCredentialStoreUnavailable hides store failures from callers; the
	// cause is logged.
	ErrCredentialStoreUnavailable = errors.New("credential store unavailable")
	// ErrUnknownPrincipal reports a valid token whose subject no longer has a
	// credential. Only produced when role revalidation is enabled.
	ErrUnknownPrincipal = errors.New("token subject has no credential")

	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")

	ErrEngineNotReady = errors.New("engine not initialized")
)
