package editor

import (
	"errors"
	"strings"
)

var (
	ErrValidation       = errors.New("draft is incomplete")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrState            = errors.New("draft is not open for editing")
	ErrNotPersisted     = errors.New("image is not stored on the server")
)

// ValidationError lists what blocks a submit
type ValidationError struct {
	Missing  []string
	NoImages bool
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, strings.Join(e.Missing, ", ")+" required")
	}
	if e.NoImages {
		parts = append(parts, "Please upload at least one image")
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
