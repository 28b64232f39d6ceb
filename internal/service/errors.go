package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("resource not found")
	ErrConflict        = errors.New("resource already exists")
	ErrForbidden       = errors.New("operation not permitted")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSelfFollow      = errors.New("cannot subscribe to yourself")
	ErrAlreadyFollows  = errors.New("subscription already exists")
	ErrAlreadyFavorite = errors.New("recipe is already in favorites")
	ErrAlreadyInCart   = errors.New("recipe is already in the shopping cart")
)

// ValidationError carries field-level messages for a 400 response.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "validation failed"
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err is a payload validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
