// Package security derives a read-only posture report from engine
// settings. It never sees secrets or key bytes.
package security
