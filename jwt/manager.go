package jwt

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the signature scheme used for issued tokens.
type SigningMethod string

const (
	// MethodHS256 signs with HMAC-SHA256 over a shared secret. It is the default.
	MethodHS256 SigningMethod = "hs256"
	// MethodHS384 signs with HMAC-SHA384 over a shared secret.
	MethodHS384 SigningMethod = "hs384"
	// MethodHS512 signs with HMAC-SHA512 over a shared secret.
	MethodHS512 SigningMethod = "hs512"
	// MethodEd25519 signs with an Ed25519 key pair.
	MethodEd25519 SigningMethod = "ed25519"
)

// MinSecretLength is the shortest HMAC secret accepted by [NewManager].
const MinSecretLength = 32

var (
	// ErrMalformedToken reports a token that cannot be decoded or whose
	// signature does not verify.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken reports a correctly signed token whose exp has elapsed.
	ErrExpiredToken = errors.New("expired token")
	// ErrInvalidToken reports every other validation fault.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidSubject is returned by Issue for an empty username.
	ErrInvalidSubject = errors.New("token subject must not be empty")
	// ErrUnknownRole is returned by Issue for a role outside the configured set.
	ErrUnknownRole = errors.New("token role not recognized")
)

// Config holds the immutable key material and validation policy of a [Manager].
//
// The manager keeps its own copy; mutating the caller's Config after
// [NewManager] returns has no effect.
type Config struct {
	TTL           time.Duration
	SigningMethod SigningMethod
	Secret        []byte
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
	KeyID         string
	// Roles is the closed set of role tags a token may carry.
	Roles []string
	// Now overrides the wall clock for issuance and expiry checks.
	Now func() time.Time
}

// Claims is the payload carried by every campus token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints signed tokens for an authenticated identity.
type Issuer interface {
	Issue(username, role string) (string, error)
}

// Validator verifies a token and returns the identity it proves.
type Validator interface {
	Validate(token string) (*Claims, error)
}

// Manager issues and validates signed tokens. It is safe for concurrent use.
type Manager struct {
	config    Config
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	parser    *jwt.Parser
}

// NewManager validates cfg and returns a ready [Manager].
func NewManager(cfg Config) (*Manager, error) {
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if len(cfg.Roles) == 0 {
		return nil, errors.New("at least one role must be configured")
	}
	if cfg.SigningMethod == "" {
		cfg.SigningMethod = MethodHS256
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)
	cfg.Secret = slices.Clone(cfg.Secret)
	cfg.Roles = slices.Clone(cfg.Roles)

	m := &Manager{config: cfg}
	switch cfg.SigningMethod {
	case MethodHS256, MethodHS384, MethodHS512:
		if len(cfg.Secret) < MinSecretLength {
			return nil, fmt.Errorf("%s requires a secret of at least %d bytes", cfg.SigningMethod, MinSecretLength)
		}
		m.method = hmacMethod(cfg.SigningMethod)
		m.signKey = cfg.Secret
		m.verifyKey = cfg.Secret
	case MethodEd25519:
		m.method = jwt.SigningMethodEdDSA
		if len(cfg.PrivateKey) > 0 {
			priv, err := parseEdPrivateKey(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			m.signKey = priv
			m.verifyKey = priv.Public()
		}
		if len(cfg.PublicKey) > 0 {
			pub, err := parseEdPublicKey(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			m.verifyKey = pub
		}
		if m.verifyKey == nil {
			return nil, errors.New("ed25519 requires a public or private key")
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithTimeFunc(cfg.Now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
	}
	if cfg.Leeway > 0 {
		options = append(options, jwt.WithLeeway(cfg.Leeway))
	}
	if cfg.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.Issuer))
	}
	m.parser = jwt.NewParser(options...)

	return m, nil
}

// TTL reports the lifetime stamped on every issued token.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue signs {sub, role, iat, exp, iss} for username. The manager must hold
// a signing key; a verify-only Ed25519 manager returns an error.
func (m *Manager) Issue(username, role string) (string, error) {
	if username == "" {
		return "", ErrInvalidSubject
	}
	if !m.knownRole(role) {
		return "", ErrUnknownRole
	}
	if m.signKey == nil {
		return "", errors.New("manager has no signing key")
	}

	now := m.config.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    m.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}

	token := jwt.NewWithClaims(m.method, claims)
	if m.config.KeyID != "" {
		token.Header["kid"] = m.config.KeyID
	}

	return token.SignedString(m.signKey)
}

// Validate verifies the signature, then the registered claims, then the
// campus-specific claims. The returned error always wraps exactly one of
// [ErrMalformedToken], [ErrExpiredToken] or [ErrInvalidToken].
func (m *Manager) Validate(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrMalformedToken
	}

	token, err := m.parser.ParseWithClaims(tokenStr, &Claims{}, m.keyFunc)
	if err != nil {
		return nil, classify(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: empty subject", ErrInvalidToken)
	}
	if !m.knownRole(claims.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidToken, claims.Role)
	}

	return claims, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != m.method.Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}
	if m.config.KeyID != "" {
		kid, _ := t.Header["kid"].(string)
		if kid != m.config.KeyID {
			return nil, errors.New("unknown kid")
		}
	}
	return m.verifyKey, nil
}

func (m *Manager) knownRole(role string) bool {
	return role != "" && slices.Contains(m.config.Roles, role)
}

// classify folds the parser's joined errors into the three public kinds.
// Signature and decoding faults win over claim faults because claims are
// only inspected once the signature verified.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
}

func hmacMethod(method SigningMethod) jwt.SigningMethod {
	switch method {
	case MethodHS384:
		return jwt.SigningMethodHS384
	case MethodHS512:
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}
