package campusAuth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrEthical07/campusAuth/jwt"
)

// Config is the complete engine configuration. Obtain one from
// [DefaultConfig], adjust it, and pass it to [Builder.WithConfig]. The
// builder keeps its own copy.
type Config struct {
	Token        TokenConfig
	Password     PasswordConfig
	Security     SecurityConfig
	Registration RegistrationConfig
	Bootstrap    BootstrapConfig
	Audit        AuditConfig
	Metrics      MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig controls how session tokens are signed and validated.
//
// SigningMethod is one of "hs256" (default), "hs384", "hs512" or "ed25519".
// HMAC methods use Secret, which must be at least 32 bytes. Ed25519 uses
// PrivateKey and PublicKey; a deployment that only validates tokens may
// omit PrivateKey.
type TokenConfig struct {
	TTL           time.Duration
	SigningMethod string
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	// Leeway tolerates clock skew on exp and iat. At most 2 minutes.
	Leeway time.Duration
	KeyID  string
}

/*
====================================
PASSWORD CONFIG
====================================
*/

type PasswordConfig struct {
	Memory           uint32 // in KiB
	Time             uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
	// MinLength applies to new passwords only.
	MinLength int
	// UpgradeOnLogin re-hashes bcrypt or weaker argon2id hashes after a
	// successful login.
	UpgradeOnLogin bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig holds login throttling and principal resolution policy.
// Throttling needs a Redis client on the builder.
type SecurityConfig struct {
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	RateLimitPrefix       string
	// RevalidateRole makes ResolvePrincipal load the credential named by the
	// token and use its current role. Off by default: the token is trusted
	// until it expires.
	RevalidateRole bool
}

/*
====================================
REGISTRATION / BOOTSTRAP
====================================
*/

type RegistrationConfig struct {
	// DefaultRole is used when a registration request names no role.
	DefaultRole Role
	// AllowOpenRegistration lets the HTTP API accept privileged
	// registrations without an ADMIN principal. Only for first-run setups.
	AllowOpenRegistration bool
}

// BootstrapConfig describes the initial administrator created by
// [Engine.EnsureAdmin]. An empty Username disables bootstrapping.
type BootstrapConfig struct {
	Username string
	Email    string
	Password string
}

/*
====================================
AUDIT / METRICS
====================================
*/

type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns a configuration with a one hour HS256 token TTL,
// OWASP-level argon2id parameters and login throttling enabled. Callers
// must still supply Token.Secret.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:           time.Hour,
			SigningMethod: string(jwt.MethodHS256),
			Issuer:        "campus-auth",
		},
		Password: PasswordConfig{
			Memory:           64 * 1024,
			Time:             3,
			Parallelism:      2,
			SaltLength:       16,
			KeyLength:        32,
			MaxPasswordBytes: 1024,
			MinLength:        8,
			UpgradeOnLogin:   true,
		},
		Security: SecurityConfig{
			EnableLoginThrottle:   true,
			EnableIPThrottle:      true,
			MaxLoginAttempts:      5,
			LoginCooldownDuration: 15 * time.Minute,
			RateLimitPrefix:       "campus:",
			RevalidateRole:        false,
		},
		Registration: RegistrationConfig{
			DefaultRole:           RoleAdmin,
			AllowOpenRegistration: false,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = cloneBytes(cfg.Token.Secret)
	out.Token.PrivateKey = cloneBytes(cfg.Token.PrivateKey)
	out.Token.PublicKey = cloneBytes(cfg.Token.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

/*
====================================
VALIDATION
====================================
*/

// Validate rejects configurations that would build an unsafe or broken
// engine. Key material itself is checked again by the jwt package.
func (c *Config) Validate() error {
	// Token
	if c.Token.TTL <= 0 {
		return errors.New("Token TTL must be > 0")
	}
	switch jwt.SigningMethod(c.Token.SigningMethod) {
	case jwt.MethodHS256, jwt.MethodHS384, jwt.MethodHS512:
		if len(c.Token.Secret) < jwt.MinSecretLength {
			return fmt.Errorf("Token Secret must be at least %d bytes", jwt.MinSecretLength)
		}
	case jwt.MethodEd25519:
		if len(c.Token.PublicKey) == 0 && len(c.Token.PrivateKey) == 0 {
			return errors.New("ed25519 requires PublicKey or PrivateKey")
		}
	default:
		return fmt.Errorf("unsupported token signing method %q", c.Token.SigningMethod)
	}
	if c.Token.Leeway < 0 || c.Token.Leeway > 2*time.Minute {
		return errors.New("Token Leeway must be between 0 and 2m")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}
	if c.Password.MaxPasswordBytes <= 0 {
		return errors.New("Password MaxPasswordBytes must be > 0")
	}
	if c.Password.MinLength < 1 || c.Password.MinLength > c.Password.MaxPasswordBytes {
		return errors.New("Password MinLength must be between 1 and MaxPasswordBytes")
	}

	// Security
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("Security MaxLoginAttempts must be > 0")
		}
		if c.Security.LoginCooldownDuration <= 0 {
			return errors.New("Security LoginCooldownDuration must be > 0")
		}
	}

	// Registration
	if !c.Registration.DefaultRole.Valid() {
		return fmt.Errorf("Registration DefaultRole %q is not a campus role", c.Registration.DefaultRole)
	}

	// Bootstrap
	if c.Bootstrap.Username != "" {
		if c.Bootstrap.Email == "" || c.Bootstrap.Password == "" {
			return errors.New("Bootstrap requires Email and Password when Username is set")
		}
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0")
	}

	return nil
}

// ConfigWarning flags a legal but questionable setting.
type ConfigWarning struct {
	Code    string
	Message string
}

// Lint reports settings that Validate accepts but that weaken a
// production deployment.
func (c *Config) Lint() []ConfigWarning {
	var ws []ConfigWarning
	add := func(code, msg string) {
		ws = append(ws, ConfigWarning{Code: code, Message: msg})
	}

	if c.Token.TTL > 24*time.Hour {
		add("token_ttl_long", "tokens live longer than a day and cannot be revoked")
	}
	if c.Token.Leeway > 30*time.Second {
		add("leeway_large", "token leeway above 30s widens the expiry window")
	}
	if !c.Security.EnableLoginThrottle {
		add("login_throttle_disabled", "failed logins are not rate limited")
	} else if !c.Security.EnableIPThrottle {
		add("ip_throttle_disabled", "password spraying across usernames is not limited per IP")
	}
	if c.Registration.AllowOpenRegistration {
		add("open_registration", "anyone can register privileged accounts")
	}
	if c.Password.MinLength < 8 {
		add("password_min_short", "minimum password length below 8")
	}
	if c.Audit.Enabled && c.Audit.DropIfFull {
		add("audit_drop_if_full", "audit events are dropped when the buffer is full")
	}
	return ws
}
