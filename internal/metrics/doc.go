// Package metrics provides lock-free counters and a latency histogram for the
// campus authentication engine.
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically. The validate-latency histogram uses 8 fixed buckets
// (≤5ms … +Inf). Export to Prometheus and OpenTelemetry lives in
// metrics/export/ and reads [Snapshot] values only.
package metrics
