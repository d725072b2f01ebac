package internaldefs

import (
	campusAuth "github.com/MrEthical07/campusAuth"
)

// CounterDef names one engine counter for export.
type CounterDef struct {
	ID   campusAuth.MetricID
	Name string
	Help string
}

type HistogramDef struct {
	ID   campusAuth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: campusAuth.MetricLoginSuccess, Name: "campus_auth_login_success_total", Help: "Successful logins."},
	{ID: campusAuth.MetricLoginFailure, Name: "campus_auth_login_failure_total", Help: "Logins rejected for bad credentials."},
	{ID: campusAuth.MetricLoginRateLimited, Name: "campus_auth_login_rate_limited_total", Help: "Logins refused by the throttle."},
	{ID: campusAuth.MetricPasswordUpgraded, Name: "campus_auth_password_upgraded_total", Help: "Password hashes upgraded on login."},
	{ID: campusAuth.MetricTokenIssued, Name: "campus_auth_token_issued_total", Help: "Session tokens issued."},
	{ID: campusAuth.MetricTokenValid, Name: "campus_auth_token_valid_total", Help: "Bearer tokens resolved to a principal."},
	{ID: campusAuth.MetricTokenMalformed, Name: "campus_auth_token_malformed_total", Help: "Bearer tokens rejected as malformed."},
	{ID: campusAuth.MetricTokenExpired, Name: "campus_auth_token_expired_total", Help: "Bearer tokens rejected as expired."},
	{ID: campusAuth.MetricTokenInvalid, Name: "campus_auth_token_invalid_total", Help: "Bearer tokens rejected for other claim faults."},
	{ID: campusAuth.MetricPrincipalUnknown, Name: "campus_auth_principal_unknown_total", Help: "Valid tokens naming a deleted credential."},
	{ID: campusAuth.MetricGuardAdmitted, Name: "campus_auth_guard_admitted_total", Help: "Requests admitted by the route guard."},
	{ID: campusAuth.MetricGuardUnauthenticated, Name: "campus_auth_guard_unauthenticated_total", Help: "Requests denied with 401."},
	{ID: campusAuth.MetricGuardForbidden, Name: "campus_auth_guard_forbidden_total", Help: "Requests denied with 403."},
	{ID: campusAuth.MetricRegistrationSuccess, Name: "campus_auth_registration_success_total", Help: "Credentials registered."},
	{ID: campusAuth.MetricRegistrationDuplicate, Name: "campus_auth_registration_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: campusAuth.MetricRegistrationInvalid, Name: "campus_auth_registration_invalid_total", Help: "Registrations rejected by validation."},
	{ID: campusAuth.MetricRateLimitHit, Name: "campus_auth_rate_limit_hit_total", Help: "Throttle checks that denied a request."},
}

var HistogramDefs = []HistogramDef{
	{ID: campusAuth.MetricValidateLatency, Name: "campus_auth_resolve_latency_seconds", Help: "Bearer token resolution latency."},
}

// AuditDropped is exported alongside the engine counters.
var AuditDropped = CounterDef{
	Name: "campus_auth_audit_dropped_total",
	Help: "Audit events dropped because the dispatcher buffer was full.",
}

// HistogramBounds are the upper bounds in seconds of the finite buckets.
// The engine keeps one more bucket for +Inf.
var HistogramBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf included, for exporters
// without native histograms.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to the eight engine buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
