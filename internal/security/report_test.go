package security

import (
	"testing"
	"time"
)

func TestBuildReportThrottle(t *testing.T) {
	in := ReportInput{
		SigningAlgorithm:      "hs256",
		EnableLoginThrottle:   true,
		EnableIPThrottle:      true,
		MaxLoginAttempts:      5,
		LoginCooldownDuration: 15 * time.Minute,
	}
	r := BuildReport(in)
	if !r.LoginThrottleActive || !r.IPThrottleActive {
		t.Fatalf("throttle should be active: %+v", r)
	}
	if r.AsymmetricSigning {
		t.Fatal("hs256 is not asymmetric")
	}

	in.MaxLoginAttempts = 0
	r = BuildReport(in)
	if r.LoginThrottleActive || r.IPThrottleActive {
		t.Fatal("zero attempts disables throttling")
	}

	in.MaxLoginAttempts = 5
	in.EnableLoginThrottle = false
	if BuildReport(in).IPThrottleActive {
		t.Fatal("ip throttle depends on the login throttle")
	}
}

func TestBuildReportFlags(t *testing.T) {
	r := BuildReport(ReportInput{
		SigningAlgorithm:  "ed25519",
		BootstrapUsername: "root",
		OpenRegistration:  true,
		RevalidateRole:    true,
	})
	if !r.AsymmetricSigning || !r.BootstrapAdmin || !r.OpenRegistration || !r.RoleRevalidation {
		t.Fatalf("unexpected report: %+v", r)
	}
}
