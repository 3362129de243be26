// Package service provides business logic for the exchange marketplace.
package service

import (
	"errors"
)

var (
	// ErrValidation is returned when a request is missing required fields
	// or carries out-of-range values.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidState is returned when an operation is attempted on an
	// exchange that already reached a terminal state.
	ErrInvalidState = errors.New("invalid exchange state")

	// ErrForbidden is returned when the caller is not a participant of the
	// resource they are acting on.
	ErrForbidden = errors.New("forbidden")
)
