package converter

import (
	"fmt"
)

// ConversionError represents a conversion failure with detailed error info
type ConversionError struct {
	OriginalError error
	Rule          string
	Path          string
	Hint          string
}

func (e *ConversionError) Error() string {
	msg := "html to markdown conversion failed"
	if e.OriginalError != nil {
		msg += fmt.Sprintf(": %v", e.OriginalError)
	}
	if e.Rule != "" {
		msg += fmt.Sprintf(" (rule: %s)", e.Rule)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (file: %s)", e.Path)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHint: %s", e.Hint)
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.OriginalError
}
