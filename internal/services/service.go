package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks requests rejected by service validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
