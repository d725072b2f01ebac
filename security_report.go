package campusAuth

import (
	"time"

	"github.com/MrEthical07/campusAuth/internal/security"
)

// SecurityReport describes the effective security posture of an engine,
// suitable for logging at startup. It carries no secrets.
type SecurityReport struct {
	SigningAlgorithm    string
	AsymmetricSigning   bool
	TokenTTL            time.Duration
	Leeway              time.Duration
	Argon2              PasswordConfigReport
	HashUpgradeOnLogin  bool
	LoginThrottleActive bool
	IPThrottleActive    bool
	RoleRevalidation    bool
	OpenRegistration    bool
	BootstrapAdmin      bool
	AuditActive         bool
}

type PasswordConfigReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	c := e.config
	r := security.BuildReport(security.ReportInput{
		SigningAlgorithm: c.Token.SigningMethod,
		TokenTTL:         c.Token.TTL,
		Leeway:           c.Token.Leeway,
		Password: security.PasswordReport{
			Memory:      c.Password.Memory,
			Time:        c.Password.Time,
			Parallelism: c.Password.Parallelism,
			SaltLength:  c.Password.SaltLength,
			KeyLength:   c.Password.KeyLength,
			MinLength:   c.Password.MinLength,
		},
		UpgradeOnLogin:        c.Password.UpgradeOnLogin,
		EnableLoginThrottle:   c.Security.EnableLoginThrottle,
		EnableIPThrottle:      c.Security.EnableIPThrottle,
		MaxLoginAttempts:      c.Security.MaxLoginAttempts,
		LoginCooldownDuration: c.Security.LoginCooldownDuration,
		RevalidateRole:        c.Security.RevalidateRole,
		OpenRegistration:      c.Registration.AllowOpenRegistration,
		BootstrapUsername:     c.Bootstrap.Username,
		AuditEnabled:          c.Audit.Enabled,
	})

	return SecurityReport{
		SigningAlgorithm:    r.SigningAlgorithm,
		AsymmetricSigning:   r.AsymmetricSigning,
		TokenTTL:            r.TokenTTL,
		Leeway:              r.Leeway,
		Argon2:              PasswordConfigReport(r.Argon2),
		HashUpgradeOnLogin:  r.HashUpgradeOnLogin,
		LoginThrottleActive: r.LoginThrottleActive,
		IPThrottleActive:    r.IPThrottleActive,
		RoleRevalidation:    r.RoleRevalidation,
		OpenRegistration:    r.OpenRegistration,
		BootstrapAdmin:      r.BootstrapAdmin,
		AuditActive:         r.AuditActive,
	}
}
