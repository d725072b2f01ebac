// Package password implements one-way password hashing and constant-time
// verification for campus credentials.
//
// # Output format
//
// New hashes are argon2id in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Bcrypt hashes ($2a$, $2b$, $2y$) inherited from the previous deployment
// still verify. [Verifier.NeedsUpgrade] reports true for them and for argon2id
// hashes made with weaker parameters, so the caller can re-hash on the next
// successful login.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Enforce password policy beyond the length cap. Minimum length is the
//     authentication service's concern.
//   - Log plaintext passwords.
package password
