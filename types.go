package campusAuth

import (
	"context"
	"strings"
	"time"
)

// Role is one of the three campus roles. The set is closed.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleEducator Role = "EDUCATOR"
	RoleStudent  Role = "STUDENT"
)

const authorityPrefix = "ROLE_"

// Roles returns every valid role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEducator, RoleStudent}
}

// ParseRole accepts a role tag ("ADMIN") or the legacy authority form
// ("ROLE_ADMIN"), case-insensitively. Anything else is [ErrInvalidRole].
func ParseRole(s string) (Role, error) {
	tag := strings.ToUpper(strings.TrimSpace(s))
	tag = strings.TrimPrefix(tag, authorityPrefix)

	r := Role(tag)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEducator, RoleStudent:
		return true
	}
	return false
}

// Authority returns the granted-authority string for r, e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return authorityPrefix + string(r)
}

func (r Role) String() string {
	return string(r)
}

// Credential is a stored login identity. PasswordHash never leaves the
// process in serialized form.
type Credential struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the authenticated identity of one request. It is built by
// [Engine.ResolvePrincipal] from a verified token and lives only in that
// request's context.
type Principal struct {
	Username           string   `json:"username"`
	Role               Role     `json:"role"`
	GrantedAuthorities []string `json:"authorities"`
}

func newPrincipal(username string, role Role) *Principal {
	return &Principal{
		Username:           username,
		Role:               role,
		GrantedAuthorities: []string{role.Authority()},
	}
}

// HasRole reports whether p holds any of roles. A nil principal holds none.
func (p *Principal) HasRole(roles ...Role) bool {
	if p == nil {
		return false
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// CredentialStore is implemented by the persistence layer.
//
// FindByUsername returns [ErrCredentialNotFound] for unknown usernames.
// Save inserts a new credential or, when ID already exists, replaces its
// mutable fields; it must enforce username and email uniqueness itself and
// report violations as [ErrDuplicateUsername] or [ErrDuplicateEmail].
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (Credential, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, cred Credential) (Credential, error)
	Delete(ctx context.Context, id string) error
}

// LoginResult is returned by a successful [Engine.Login].
type LoginResult struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// RegisterRequest describes a new credential. An empty Role defaults to
// Config.Registration.DefaultRole.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     Role
}
