package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	campusAuth "github.com/MrEthical07/campusAuth"
)

// Client-facing error codes.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeRateLimited        = "RATE_LIMITED"
	CodeDuplicateUsername  = "DUPLICATE_USERNAME"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorDetail is the body of every error response:
// {"error":{"code":"...","message":"..."}}.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type mapping struct {
	target  error
	status  int
	code    string
	message string
}

// Messages are generic on purpose; causes stay in the logs.
var mappings = []mapping{
	{campusAuth.ErrUnauthenticated, http.StatusUnauthorized, CodeUnauthenticated, "authentication required"},
	{campusAuth.ErrForbidden, http.StatusForbidden, CodeForbidden, "insufficient role"},
	{campusAuth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials, "invalid username or password"},
	{campusAuth.ErrLoginRateLimited, http.StatusTooManyRequests, CodeRateLimited, "too many login attempts"},
	{campusAuth.ErrDuplicateUsername, http.StatusConflict, CodeDuplicateUsername, "username already exists"},
	{campusAuth.ErrDuplicateEmail, http.StatusConflict, CodeDuplicateEmail, "email already exists"},
	{campusAuth.ErrRegistrationInvalid, http.StatusBadRequest, CodeValidation, "invalid registration request"},
	{campusAuth.ErrPasswordPolicy, http.StatusBadRequest, CodeValidation, "password does not meet policy"},
	{campusAuth.ErrInvalidRole, http.StatusBadRequest, CodeValidation, "unknown role"},
	{campusAuth.ErrRateLimiterUnavailable, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable"},
	{campusAuth.ErrCredentialStoreUnavailable, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable"},
	{campusAuth.ErrEngineNotReady, http.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable"},
}

// ErrorResponse maps err to an HTTP status and response body. Unknown
// errors become 500 INTERNAL_ERROR.
func ErrorResponse(err error) (int, ErrorBody) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, ErrorBody{Error: ErrorDetail{Code: m.code, Message: m.message}}
		}
	}
	return http.StatusInternalServerError, ErrorBody{Error: ErrorDetail{Code: CodeInternal, Message: "internal error"}}
}

// StatusFor returns the HTTP status ErrorResponse would use for err.
func StatusFor(err error) int {
	status, _ := ErrorResponse(err)
	return status
}

// WriteError writes the JSON error response for err.
func WriteError(w http.ResponseWriter, err error) {
	status, body := ErrorResponse(err)
	WriteJSON(w, status, body)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
