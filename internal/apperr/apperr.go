// Package apperr defines the error kinds the services surface to the
// HTTP layer. Handlers match them with errors.Is and map each kind to
// a status code; persistence failures never escape as raw gorm errors.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound covers both "does not exist" and "caller lacks access"
	// for project-scoped resources, so existence is never leaked.
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrInternal   = errors.New("internal error")
)

func NotFound(what string) error {
	return fmt.Errorf("%s: %w", what, ErrNotFound)
}

func Validation(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrValidation)
}

func Internal(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrInternal)
}
