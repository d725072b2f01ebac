package password

import (
	"errors"
	"fmt"
)

// ErrEmptyPassword is returned by Hash for an empty plaintext.
var ErrEmptyPassword = errors.New("password must not be empty")

// Verifier is the single entry point used by the authentication service.
// It hashes with argon2id and verifies argon2id or legacy bcrypt hashes.
type Verifier struct {
	argon  *Argon2
	legacy Bcrypt
	dummy  string
}

// NewVerifier builds a Verifier around the given argon2id parameters.
func NewVerifier(cfg Config) (*Verifier, error) {
	argon, err := NewArgon2(cfg)
	if err != nil {
		return nil, err
	}

	dummy, err := argon.Hash("campus-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("derive dummy hash: %w", err)
	}

	return &Verifier{argon: argon, dummy: dummy}, nil
}

// Hash returns an argon2id PHC string for plaintext.
func (v *Verifier) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	return v.argon.Hash(plaintext)
}

// Matches reports whether plaintext corresponds to encoded.
func (v *Verifier) Matches(plaintext, encoded string) (bool, error) {
	switch {
	case isBcrypt(encoded):
		return v.legacy.Verify(plaintext, encoded)
	case len(encoded) > len(argon2Prefix) && encoded[:len(argon2Prefix)] == argon2Prefix:
		return v.argon.Verify(plaintext, encoded)
	default:
		return false, ErrUnsupportedHash
	}
}

// DummyMatch burns one argon2id derivation so that a login for an unknown
// username costs the same as a wrong password. It always reports false.
func (v *Verifier) DummyMatch(plaintext string) bool {
	_, _ = v.argon.Verify(plaintext, v.dummy)
	return false
}

// NeedsUpgrade reports whether encoded should be re-hashed with the current
// argon2id parameters. Every bcrypt hash needs an upgrade.
func (v *Verifier) NeedsUpgrade(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}
	upgrade, err := v.argon.NeedsUpgrade(encoded)
	return err == nil && upgrade
}
