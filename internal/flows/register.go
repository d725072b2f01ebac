package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// RegisterInput is the flow-local registration request.
type RegisterInput struct {
	Username string `validate:"required,max=64"`
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required"`
	Role     string
}

// RegisterRecord is the credential handed to the store and returned to the caller.
type RegisterRecord struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RegisterMetrics carries metric IDs used by the registration flow.
type RegisterMetrics struct {
	RegistrationSuccess   int
	RegistrationDuplicate int
	RegistrationInvalid   int
}

// RegisterEvents carries audit event names used by the registration flow.
type RegisterEvents struct {
	RegistrationSuccess string
	RegistrationFailure string
}

// RegisterErrors carries host-level sentinel errors used by the registration flow.
type RegisterErrors struct {
	EngineNotReady      error
	RegistrationInvalid error
	PasswordPolicy      error
	InvalidRole         error
	DuplicateUsername   error
	DuplicateEmail      error
	StoreUnavailable    error
	PasswordTooLong     error
}

// RegisterDeps captures registration dependencies.
type RegisterDeps struct {
	MinPasswordLength int
	DefaultRole       string

	Now   func() time.Time
	NewID func() string

	ParseRole        func(string) (string, error)
	ExistsByUsername func(context.Context, string) (bool, error)
	ExistsByEmail    func(context.Context, string) (bool, error)
	Save             func(context.Context, RegisterRecord) (RegisterRecord, error)
	HashPassword     func(string) (string, error)

	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, username, role string, err error, metadata func() map[string]string)
	Warn      func(msg string, err error)

	Metrics RegisterMetrics
	Events  RegisterEvents
	Errors  RegisterErrors
}

var (
	inputValidator     *validator.Validate
	inputValidatorOnce sync.Once
)

func getValidator() *validator.Validate {
	inputValidatorOnce.Do(func() {
		inputValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return inputValidator
}

// RunRegister creates a credential after checking input shape, password
// policy and both uniqueness constraints. The store's own unique indexes
// remain the final arbiter under concurrency.
func RunRegister(ctx context.Context, in RegisterInput, deps RegisterDeps) (*RegisterRecord, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.MetricInc == nil {
		deps.MetricInc = func(int) {}
	}
	if deps.EmitAudit == nil {
		deps.EmitAudit = func(context.Context, string, bool, string, string, error, func() map[string]string) {}
	}
	if deps.Warn == nil {
		deps.Warn = func(string, error) {}
	}
	if deps.NewID == nil ||
		deps.ParseRole == nil ||
		deps.ExistsByUsername == nil ||
		deps.ExistsByEmail == nil ||
		deps.Save == nil ||
		deps.HashPassword == nil {
		return nil, deps.Errors.EngineNotReady
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	reject := func(err error, reason string) (*RegisterRecord, error) {
		if errors.Is(err, deps.Errors.DuplicateUsername) || errors.Is(err, deps.Errors.DuplicateEmail) {
			deps.MetricInc(deps.Metrics.RegistrationDuplicate)
		} else {
			deps.MetricInc(deps.Metrics.RegistrationInvalid)
		}
		deps.EmitAudit(ctx, deps.Events.RegistrationFailure, false, in.Username, "", err, func() map[string]string {
			return map[string]string{"reason": reason}
		})
		return nil, err
	}

	if err := getValidator().Struct(in); err != nil {
		return reject(fmt.Errorf("%w: %s", deps.Errors.RegistrationInvalid, describeValidation(err)), "invalid_input")
	}
	if strings.ContainsFunc(in.Username, unicode.IsSpace) {
		return reject(fmt.Errorf("%w: username must not contain whitespace", deps.Errors.RegistrationInvalid), "invalid_input")
	}
	if len(in.Password) < deps.MinPasswordLength {
		return reject(fmt.Errorf("%w: password must be at least %d characters", deps.Errors.PasswordPolicy, deps.MinPasswordLength), "password_policy")
	}

	roleTag := in.Role
	if strings.TrimSpace(roleTag) == "" {
		roleTag = deps.DefaultRole
	}
	role, err := deps.ParseRole(roleTag)
	if err != nil {
		return reject(fmt.Errorf("%w: %q", deps.Errors.InvalidRole, roleTag), "invalid_role")
	}

	taken, err := deps.ExistsByUsername(ctx, in.Username)
	if err != nil {
		deps.Warn("username uniqueness check failed", err)
		return nil, deps.Errors.StoreUnavailable
	}
	if taken {
		return reject(deps.Errors.DuplicateUsername, "duplicate_username")
	}

	taken, err = deps.ExistsByEmail(ctx, in.Email)
	if err != nil {
		deps.Warn("email uniqueness check failed", err)
		return nil, deps.Errors.StoreUnavailable
	}
	if taken {
		return reject(deps.Errors.DuplicateEmail, "duplicate_email")
	}

	hash, err := deps.HashPassword(in.Password)
	in.Password = ""
	if err != nil {
		if deps.Errors.PasswordTooLong != nil && errors.Is(err, deps.Errors.PasswordTooLong) {
			return reject(fmt.Errorf("%w: password too long", deps.Errors.PasswordPolicy), "password_policy")
		}
		deps.Warn("password hashing failed", err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := deps.Now().UTC()
	saved, err := deps.Save(ctx, RegisterRecord{
		ID:           deps.NewID(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		switch {
		case errors.Is(err, deps.Errors.DuplicateUsername):
			return reject(deps.Errors.DuplicateUsername, "duplicate_username")
		case errors.Is(err, deps.Errors.DuplicateEmail):
			return reject(deps.Errors.DuplicateEmail, "duplicate_email")
		}
		deps.Warn("credential save failed", err)
		return nil, deps.Errors.StoreUnavailable
	}

	deps.MetricInc(deps.Metrics.RegistrationSuccess)
	deps.EmitAudit(ctx, deps.Events.RegistrationSuccess, true, saved.Username, saved.Role, nil, nil)

	saved.PasswordHash = ""
	return &saved, nil
}

func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "invalid input"
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "max":
			msgs = append(msgs, field+" must be at most "+fe.Param()+" characters")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
