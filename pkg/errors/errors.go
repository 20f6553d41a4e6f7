package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Auth / token errors used by the middleware chain.
	ErrInvalidSigningMethod = errors.New("invalid token signing method")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrEmptyAuthHeader      = errors.New("authorization header is missing")
	ErrInvalidAuthHeader    = errors.New("malformed authorization header")
	ErrForbidden            = errors.New("access denied")

	// Context errors.
	ErrActorNotFoundInContext = errors.New("actor context missing from request context")

	// Repository errors.
	ErrNotFound = errors.New("record not found")

	// ErrConcurrentModification is returned when a conditional status update
	// matched zero rows because another actor already moved the request on.
	// Callers must refetch and re-validate, never retry blindly.
	ErrConcurrentModification = errors.New("request was modified by another actor")
)

// InvalidTransitionError reports an intent that is not legal from the request's
// current status for the acting role. No mutation has occurred.
type InvalidTransitionError struct {
	Current string
	Intent  string
	Role    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("intent %q is not allowed from status %q for role %q", e.Intent, e.Current, e.Role)
}

func NewInvalidTransition(current, intent, role string) error {
	return &InvalidTransitionError{Current: current, Intent: intent, Role: role}
}

// ValidationError reports missing or malformed input for the target status.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// HttpError carries an HTTP status alongside a user-facing message. The
// underlying cause stays internal and is only logged.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}

// HttpStatusFor maps workflow errors onto HTTP statuses in one place so the
// controllers stay thin.
func HttpStatusFor(err error) int {
	var invalid *InvalidTransitionError
	var validation *ValidationError
	var httpErr *HttpError

	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &invalid):
		return http.StatusConflict
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrEmptyAuthHeader),
		errors.Is(err, ErrInvalidAuthHeader),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrActorNotFoundInContext):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
