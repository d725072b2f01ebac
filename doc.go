// Package campusAuth is the stateless authentication and role-based access
// core of the campus administration backend.
//
// An [Engine] logs users in against a [CredentialStore], signs short-lived
// bearer tokens, registers privileged credentials, and turns a presented
// token back into a [Principal]. There is no server-side session: a token
// is trusted until its exp unless Security.RevalidateRole is enabled.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build].
//
// # Architecture boundaries
//
// campusAuth is the public surface. Flow orchestration, throttling, audit
// dispatch and counters live under internal/. HTTP adapters live in
// middleware/ (net/http and gin) and api/; persistence in store/.
//
// # What this package must NOT do
//
//   - Keep the current principal anywhere but the request context.
//   - Log or audit tokens or passwords.
//   - Reveal whether a failed login named an existing username.
package campusAuth
