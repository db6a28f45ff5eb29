package entity

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput is returned when a submission has a malformed URL, validity or short code.
	ErrInvalidInput = errors.New("invalid input")
	// ErrShortCodeExists is returned when a short code has already been issued.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrGenerationExhausted is returned when no free short code was found within the attempt limit.
	ErrGenerationExhausted = errors.New("short code generation exhausted")
	// ErrEmptyBatch is returned when a batch holds no usable entries.
	ErrEmptyBatch = errors.New("empty batch")
	// ErrURLNotFound is returned when a URL with the specified short code cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrURLExpired is returned when the short code is known but its validity window has passed.
	ErrURLExpired = errors.New("url expired")
)

// ValidationError carries every violation found in a batch, one human readable line each.
type ValidationError struct {
	Errors    []string
	Duplicate bool // at least one violation is a short code collision
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Unwrap exposes ErrInvalidInput and, for collisions, ErrShortCodeExists to errors.Is.
func (e *ValidationError) Unwrap() []error {
	if e.Duplicate {
		return []error{ErrInvalidInput, ErrShortCodeExists}
	}
	return []error{ErrInvalidInput}
}
