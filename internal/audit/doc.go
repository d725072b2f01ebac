// Package audit carries login and registration outcomes to a pluggable sink.
//
// [Dispatcher] decouples emitters from sinks through a bounded queue. Sinks
// provided here write to a channel, to newline-delimited JSON, or to a
// zerolog logger. Events never contain passwords or tokens; deciding which
// events exist is the engine's job, not this package's.
package audit
