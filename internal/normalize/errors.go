// Package normalize coerces loosely-structured resume input into a canonical types.ResumeRecord.
package normalize

import "fmt"

// LoadError represents an error reading or decoding resume input
type LoadError struct {
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("load error: %s", e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Error represents input whose shape cannot be coerced at all
type Error struct {
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	prefix := "normalization error"
	if e.Field != "" {
		prefix = fmt.Sprintf("normalization error in %s", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
