// Package apperr defines the business error kinds surfaced by the marketplace
// core and their HTTP mapping.
//
// Services return errors created with apperr.New (or wrap a sentinel with
// fmt.Errorf and %w); controllers translate them with apperr.Status:
//
//	if err := svc.AddItem(...); err != nil {
//	    response.Error(w, apperr.Status(err), err.Error())
//	    return
//	}
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Every business-rule violation wraps exactly one of these so
// callers can branch with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrOutOfStock   = errors.New("out of stock")
	ErrEmptyCart    = errors.New("empty cart")
	ErrValidation   = errors.New("validation failed")
)

// New wraps kind with a human-readable detail message.
//
//	apperr.New(apperr.ErrConflict, "Product already in cart")
func New(kind error, detail string) error {
	return fmt.Errorf("%w: %s", kind, detail)
}

// Newf wraps kind with a formatted detail message.
func Newf(kind error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{kind}, args...)...)
}

// Status maps an error to its HTTP status code. Unrecognised errors are
// internal failures and map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrConflict), errors.Is(err, ErrOutOfStock), errors.Is(err, ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Detail strips the kind prefix from an error produced by New, leaving the
// caller-facing message. Falls back to Error() when the error is not prefixed.
func Detail(err error) string {
	for _, kind := range []error{
		ErrNotFound, ErrForbidden, ErrUnauthorized,
		ErrConflict, ErrOutOfStock, ErrEmptyCart, ErrValidation,
	} {
		if errors.Is(err, kind) {
			prefix := kind.Error() + ": "
			msg := err.Error()
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
