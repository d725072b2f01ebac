package campusAuth

import (
	"context"

	"github.com/MrEthical07/campusAuth/internal/flows"
	"github.com/MrEthical07/campusAuth/password"
	"github.com/google/uuid"
)

func (e *Engine) buildFlowDeps() flows.Deps {
	emit := func(ctx context.Context, event string, success bool, username, role string, err error, metadata func() map[string]string) {
		e.emitAudit(ctx, event, success, username, role, err, metadata)
	}
	metricInc := func(id int) {
		e.metricInc(MetricID(id))
	}
	warn := func(msg string, err error) {
		e.logger.Warn().Err(err).Msg(msg)
	}

	login := flows.LoginDeps{
		PasswordUpgradeOnLogin: e.config.Password.UpgradeOnLogin,
		ClientIPFromContext:    clientIPFromContext,

		FindCredential: e.findLoginCredential,
		UpdateHash:     e.updatePasswordHash,

		VerifyPassword:       e.passwords.Matches,
		DummyVerify:          func(plain string) { e.passwords.DummyMatch(plain) },
		PasswordNeedsUpgrade: e.passwords.NeedsUpgrade,
		HashPassword:         e.passwords.Hash,

		IssueToken: e.issueToken,

		MetricInc: metricInc,
		EmitAudit: emit,
		Warn:      warn,

		Metrics: flows.LoginMetrics{
			LoginSuccess:     int(MetricLoginSuccess),
			LoginFailure:     int(MetricLoginFailure),
			LoginRateLimited: int(MetricLoginRateLimited),
			RateLimitHit:     int(MetricRateLimitHit),
			PasswordUpgraded: int(MetricPasswordUpgraded),
			TokenIssued:      int(MetricTokenIssued),
		},
		Events: flows.LoginEvents{
			LoginSuccess:     EventLoginSuccess,
			LoginFailure:     EventLoginFailure,
			LoginRateLimited: EventLoginRateLimited,
		},
		Errors: flows.LoginErrors{
			EngineNotReady:         ErrEngineNotReady,
			InvalidCredentials:     ErrInvalidCredentials,
			LoginRateLimited:       ErrLoginRateLimited,
			RateLimiterUnavailable: ErrRateLimiterUnavailable,
			CredentialNotFound:     ErrCredentialNotFound,
			StoreUnavailable:       ErrCredentialStoreUnavailable,
			TokenIssueFailed:       ErrTokenIssueFailed,
		},
	}
	if e.rateLimiter != nil {
		login.CheckLoginRate = e.rateLimiter.Check
		login.RecordLoginFailure = e.rateLimiter.RecordFailure
		login.ResetLoginRate = e.rateLimiter.Reset
	}

	register := flows.RegisterDeps{
		MinPasswordLength: e.config.Password.MinLength,
		DefaultRole:       string(e.config.Registration.DefaultRole),

		Now:   e.now,
		NewID: uuid.NewString,

		ParseRole: func(s string) (string, error) {
			r, err := ParseRole(s)
			return string(r), err
		},
		ExistsByUsername: e.store.ExistsByUsername,
		ExistsByEmail:    e.store.ExistsByEmail,
		Save:             e.saveRegisterRecord,
		HashPassword:     e.passwords.Hash,

		MetricInc: metricInc,
		EmitAudit: emit,
		Warn:      warn,

		Metrics: flows.RegisterMetrics{
			RegistrationSuccess:   int(MetricRegistrationSuccess),
			RegistrationDuplicate: int(MetricRegistrationDuplicate),
			RegistrationInvalid:   int(MetricRegistrationInvalid),
		},
		Events: flows.RegisterEvents{
			RegistrationSuccess: EventRegistrationSuccess,
			RegistrationFailure: EventRegistrationFailure,
		},
		Errors: flows.RegisterErrors{
			EngineNotReady:      ErrEngineNotReady,
			RegistrationInvalid: ErrRegistrationInvalid,
			PasswordPolicy:      ErrPasswordPolicy,
			InvalidRole:         ErrInvalidRole,
			DuplicateUsername:   ErrDuplicateUsername,
			DuplicateEmail:      ErrDuplicateEmail,
			StoreUnavailable:    ErrCredentialStoreUnavailable,
			PasswordTooLong:     password.ErrPasswordTooLong,
		},
	}

	return flows.Deps{Login: login, Register: register}
}

func (e *Engine) findLoginCredential(ctx context.Context, username string) (flows.LoginCredential, error) {
	cred, err := e.store.FindByUsername(ctx, username)
	if err != nil {
		return flows.LoginCredential{}, err
	}
	return flows.LoginCredential{
		ID:           cred.ID,
		Username:     cred.Username,
		PasswordHash: cred.PasswordHash,
		Role:         string(cred.Role),
	}, nil
}

func (e *Engine) updatePasswordHash(ctx context.Context, lc flows.LoginCredential, hash string) error {
	cred, err := e.store.FindByUsername(ctx, lc.Username)
	if err != nil {
		return err
	}
	cred.PasswordHash = hash
	cred.UpdatedAt = e.now().UTC()
	_, err = e.store.Save(ctx, cred)
	return err
}

func (e *Engine) saveRegisterRecord(ctx context.Context, rec flows.RegisterRecord) (flows.RegisterRecord, error) {
	saved, err := e.store.Save(ctx, Credential{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		Role:         Role(rec.Role),
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	})
	if err != nil {
		return flows.RegisterRecord{}, err
	}
	return flows.RegisterRecord{
		ID:           saved.ID,
		Username:     saved.Username,
		Email:        saved.Email,
		PasswordHash: saved.PasswordHash,
		Role:         string(saved.Role),
		CreatedAt:    saved.CreatedAt,
		UpdatedAt:    saved.UpdatedAt,
	}, nil
}
