package ingest

import (
	"fmt"
)

// ConversionError represents a post that could not be converted or stored
type ConversionError struct {
	PostID int
	Slug   string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("post %d failed", e.PostID)
	if e.Slug != "" {
		msg += fmt.Sprintf(" (slug: %s)", e.Slug)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failure
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation failed: %s", e.Reason)
}
