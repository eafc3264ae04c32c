package utils

import "errors"

// Common application errors used across repositories and services.
var (
	ErrNotFound            = errors.New("NOT_FOUND")
	ErrConstraintViolation = errors.New("CONSTRAINT_VIOLATION")
	ErrProtected           = errors.New("PROTECTED_REFERENCE")
	ErrCycle               = errors.New("CATEGORY_CYCLE")
	ErrValidation          = errors.New("VALIDATION_ERROR")
	ErrInvalidCredentials  = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive     = errors.New("ACCOUNT_INACTIVE")
	ErrIndexUnavailable    = errors.New("SEARCH_UNAVAILABLE")
	ErrTimeout             = errors.New("SEARCH_TIMEOUT")
)

// ErrorCode returns the API error code carried by one of the sentinel errors
// wrapped in err, or "INTERNAL_ERROR".
func ErrorCode(err error) string {
	for _, target := range []error{
		ErrNotFound, ErrConstraintViolation, ErrProtected, ErrCycle,
		ErrValidation, ErrInvalidCredentials, ErrAccountInactive,
		ErrIndexUnavailable, ErrTimeout,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "INTERNAL_ERROR"
}

// HTTPStatus maps err to the status code used when it reaches a handler.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return 404
	case errors.Is(err, ErrValidation):
		return 400
	case errors.Is(err, ErrConstraintViolation), errors.Is(err, ErrProtected), errors.Is(err, ErrCycle):
		return 409
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrAccountInactive):
		return 401
	case errors.Is(err, ErrIndexUnavailable):
		return 503
	case errors.Is(err, ErrTimeout):
		return 504
	default:
		return 500
	}
}
