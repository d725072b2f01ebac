// Package otel publishes campusAuth engine metrics as OpenTelemetry
// observable instruments.
//
// [New] registers one Int64ObservableCounter per engine counter and one
// Int64ObservableGauge per latency bucket. A single callback reads
// [campusAuth.Engine.MetricsSnapshot] on each collection cycle.
//
// The campus-authd binary serves Prometheus only. Services that embed the
// engine and already run an OpenTelemetry pipeline register it instead:
//
//	exporter, err := otel.New(provider.Meter("campus-auth"), engine)
//	if err != nil {
//		return err
//	}
//	defer exporter.Close()
//
// See Example for a complete wiring against a manual reader.
//
// # What this package must NOT do
//
//   - Own the MeterProvider; callers supply the Meter.
//   - Mutate engine state.
package otel
