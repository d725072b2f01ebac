package campusAuth

import (
	"io"

	internalaudit "github.com/MrEthical07/campusAuth/internal/audit"
	"github.com/rs/zerolog"
)

// Audit event types emitted by the engine.
const (
	EventLoginSuccess        = "login_success"
	EventLoginFailure        = "login_failure"
	EventLoginRateLimited    = "login_rate_limited"
	EventRegistrationSuccess = "registration_success"
	EventRegistrationFailure = "registration_failure"
	EventAdminBootstrapped   = "admin_bootstrapped"
)

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink discards all events.
type NoOpSink = internalaudit.NoOpSink

type ChannelSink = internalaudit.ChannelSink

type JSONWriterSink = internalaudit.JSONWriterSink

// LoggerSink writes audit events through a zerolog logger.
type LoggerSink = internalaudit.LoggerSink

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewLoggerSink(logger zerolog.Logger) LoggerSink {
	return internalaudit.NewLoggerSink(logger)
}
