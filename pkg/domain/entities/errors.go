package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a violated precondition. Every validation failure in the
// decision engine wraps it so callers can branch with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputf formats a validation failure wrapping ErrInvalidInput.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsInvalidInput reports whether err is, or wraps, ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
