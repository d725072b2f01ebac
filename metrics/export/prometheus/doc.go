// Package prometheus exports campusAuth engine metrics through
// client_golang.
//
// Register a [Collector] on any [prometheus.Registerer] and serve it with
// promhttp. Every scrape reads [campusAuth.Engine.MetricsSnapshot]; the
// collector holds no state of its own.
//
// # What this package must NOT do
//
//   - Mutate engine state.
//   - Register itself on the default registry.
package prometheus
