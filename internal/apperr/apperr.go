// Package apperr defines the service error taxonomy and its HTTP mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound: referenced entity absent or not owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrValidation: malformed or missing input.
	ErrValidation = errors.New("validation error")
	// ErrCurrencyMismatch: transaction currency differs from the account's.
	ErrCurrencyMismatch = errors.New("currency mismatch")
	// ErrCategoryKindMismatch: category type does not match transaction type.
	ErrCategoryKindMismatch = errors.New("category kind mismatch")
	// ErrInvalidFrequency: unknown recurrence frequency or interval < 1.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrInvalidState: operation not allowed in the entity's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrConflict: duplicate or conflicting resource.
	ErrConflict = errors.New("conflict")
)

// Wrap annotates sentinel with a detail message while keeping errors.Is
// matching intact.
func Wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}

// Status maps err to an HTTP status code. Unrecognized errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrCategoryKindMismatch),
		errors.Is(err, ErrInvalidFrequency),
		errors.Is(err, ErrInvalidState):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
