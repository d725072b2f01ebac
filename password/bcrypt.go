package password

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt verifies hashes carried over from the previous deployment, which
// stored Spring-style $2a$/$2b$/$2y$ hashes. New hashes are never bcrypt.
type Bcrypt struct{}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// Verify compares plaintext against a bcrypt hash. A mismatch is (false, nil);
// a corrupt hash is an error.
func (Bcrypt) Verify(plaintext, encoded string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	case errors.Is(err, bcrypt.ErrPasswordTooLong):
		// bcrypt cannot have produced a hash for this input.
		return false, nil
	default:
		return false, errors.Join(ErrUnsupportedHash, err)
	}
}
