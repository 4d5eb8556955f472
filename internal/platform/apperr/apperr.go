// Package apperr classifies errors into the kinds the HTTP layer maps to status codes.
//
// Package sentinels are built with the constructors below so that both the sentinel
// and its kind match with errors.Is:
//
//	var ErrCartLineNotFound = apperr.NotFound("cart line not found")
//	errors.Is(err, ErrCartLineNotFound) // true
//	errors.Is(err, apperr.ErrNotFound)  // true
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBackend      = errors.New("backend error")
	ErrUnauthorized = errors.New("unauthorized")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func Validation(msg string) error   { return &kindError{kind: ErrValidation, msg: msg} }
func NotFound(msg string) error     { return &kindError{kind: ErrNotFound, msg: msg} }
func Conflict(msg string) error     { return &kindError{kind: ErrConflict, msg: msg} }
func Unauthorized(msg string) error { return &kindError{kind: ErrUnauthorized, msg: msg} }

// Validationf formats a validation message.
func Validationf(format string, args ...interface{}) error {
	return Validation(fmt.Sprintf(format, args...))
}

// Backend wraps a storage or transport failure. The cause stays reachable through errors.Is/As.
// Errors that already carry a kind are returned unchanged.
func Backend(err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return fmt.Errorf("%w: %w", ErrBackend, err)
}

// Kind returns the kind sentinel err belongs to, or nil.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrConflict, ErrUnauthorized, ErrBackend} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Status maps err to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	switch Kind(err) {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
