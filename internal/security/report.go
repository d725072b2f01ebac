package security

import "time"

type PasswordReport struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
	MinLength   int
}

// Report summarizes the security posture of a configured engine. It holds
// no key material.
type Report struct {
	SigningAlgorithm    string
	AsymmetricSigning   bool
	TokenTTL            time.Duration
	Leeway              time.Duration
	Argon2              PasswordReport
	HashUpgradeOnLogin  bool
	LoginThrottleActive bool
	IPThrottleActive    bool
	RoleRevalidation    bool
	OpenRegistration    bool
	BootstrapAdmin      bool
	AuditActive         bool
}

type ReportInput struct {
	SigningAlgorithm      string
	TokenTTL              time.Duration
	Leeway                time.Duration
	Password              PasswordReport
	UpgradeOnLogin        bool
	EnableLoginThrottle   bool
	EnableIPThrottle      bool
	MaxLoginAttempts      int
	LoginCooldownDuration time.Duration
	RevalidateRole        bool
	OpenRegistration      bool
	BootstrapUsername     string
	AuditEnabled          bool
}

func BuildReport(input ReportInput) Report {
	throttle := input.EnableLoginThrottle &&
		input.MaxLoginAttempts > 0 &&
		input.LoginCooldownDuration > 0

	return Report{
		SigningAlgorithm:    input.SigningAlgorithm,
		AsymmetricSigning:   input.SigningAlgorithm == "ed25519",
		TokenTTL:            input.TokenTTL,
		Leeway:              input.Leeway,
		Argon2:              input.Password,
		HashUpgradeOnLogin:  input.UpgradeOnLogin,
		LoginThrottleActive: throttle,
		IPThrottleActive:    throttle && input.EnableIPThrottle,
		RoleRevalidation:    input.RevalidateRole,
		OpenRegistration:    input.OpenRegistration,
		BootstrapAdmin:      input.BootstrapUsername != "",
		AuditActive:         input.AuditEnabled,
	}
}
