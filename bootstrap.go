package campusAuth

import (
	"context"
	"errors"
)

// EnsureAdmin creates the administrator described by Config.Bootstrap
// unless that username already exists. It reports whether a credential was
// created. A concurrent instance winning the race is not an error.
func (e *Engine) EnsureAdmin(ctx context.Context) (bool, error) {
	if e == nil {
		return false, ErrEngineNotReady
	}
	bc := e.config.Bootstrap
	if bc.Username == "" {
		return false, nil
	}

	exists, err := e.store.ExistsByUsername(ctx, bc.Username)
	if err != nil {
		return false, errors.Join(ErrCredentialStoreUnavailable, err)
	}
	if exists {
		e.logger.Debug().Str("username", bc.Username).Msg("bootstrap admin already present")
		return false, nil
	}

	cred, err := e.RegisterPrivileged(ctx, RegisterRequest{
		Username: bc.Username,
		Email:    bc.Email,
		Password: bc.Password,
		Role:     RoleAdmin,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	e.emitAudit(ctx, EventAdminBootstrapped, true, cred.Username, string(cred.Role), nil, nil)
	e.logger.Info().Str("username", cred.Username).Msg("bootstrap admin created")
	return true, nil
}
