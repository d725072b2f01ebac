package campusAuth

import (
	internalmetrics "github.com/MrEthical07/campusAuth/internal/metrics"
)

// MetricID identifies a counter in the in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	MetricLoginSuccess          = MetricID(internalmetrics.MetricLoginSuccess)
	MetricLoginFailure          = MetricID(internalmetrics.MetricLoginFailure)
	MetricLoginRateLimited      = MetricID(internalmetrics.MetricLoginRateLimited)
	MetricPasswordUpgraded      = MetricID(internalmetrics.MetricPasswordUpgraded)
	MetricTokenIssued           = MetricID(internalmetrics.MetricTokenIssued)
	MetricTokenValid            = MetricID(internalmetrics.MetricTokenValid)
	MetricTokenMalformed        = MetricID(internalmetrics.MetricTokenMalformed)
	MetricTokenExpired          = MetricID(internalmetrics.MetricTokenExpired)
	MetricTokenInvalid          = MetricID(internalmetrics.MetricTokenInvalid)
	MetricPrincipalUnknown      = MetricID(internalmetrics.MetricPrincipalUnknown)
	MetricGuardAdmitted         = MetricID(internalmetrics.MetricGuardAdmitted)
	MetricGuardUnauthenticated  = MetricID(internalmetrics.MetricGuardUnauthenticated)
	MetricGuardForbidden        = MetricID(internalmetrics.MetricGuardForbidden)
	MetricRegistrationSuccess   = MetricID(internalmetrics.MetricRegistrationSuccess)
	MetricRegistrationDuplicate = MetricID(internalmetrics.MetricRegistrationDuplicate)
	MetricRegistrationInvalid   = MetricID(internalmetrics.MetricRegistrationInvalid)
	MetricRateLimitHit          = MetricID(internalmetrics.MetricRateLimitHit)
	// MetricValidateLatency is the only histogram; it times ResolvePrincipal.
	MetricValidateLatency = MetricID(internalmetrics.MetricValidateLatency)
)

// Metrics holds atomic counters and the optional latency histogram.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance. When cfg.Enabled is false every
// operation is a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
