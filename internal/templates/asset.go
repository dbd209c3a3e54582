// Package templates resolves markup skeletons by id, with caching and a
// fixed fallback to the default template.
package templates

import (
	"errors"
	"fmt"
	"strings"
)

// Placeholder is the single slot a skeleton exposes for the rendered body
const Placeholder = "{{.Content}}"

// DefaultID is the template used when none is requested or the requested one
// cannot be found
const DefaultID = "classic"

var (
	// ErrNotFound means the store has no template with the requested id
	ErrNotFound = errors.New("template not found")
	// ErrStoreUnavailable is the one resolution failure surfaced to callers
	ErrStoreUnavailable = errors.New("template store unavailable")
)

// TemplateAsset is an immutable markup skeleton
type TemplateAsset struct {
	ID       string `json:"id"`
	Skeleton string `json:"skeleton"`
}

// InvalidTemplateError reports a skeleton without exactly one placeholder
type InvalidTemplateError struct {
	ID     string
	Reason string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid template %q: %s", e.ID, e.Reason)
}

// Validate checks that the skeleton holds exactly one content placeholder and
// no other template action.
func (a TemplateAsset) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return &InvalidTemplateError{ID: a.ID, Reason: "empty id"}
	}
	switch n := strings.Count(a.Skeleton, Placeholder); n {
	case 1:
	case 0:
		return &InvalidTemplateError{ID: a.ID, Reason: "missing content placeholder"}
	default:
		return &InvalidTemplateError{ID: a.ID, Reason: fmt.Sprintf("%d content placeholders, want 1", n)}
	}
	if strings.Count(a.Skeleton, "{{") != 1 {
		return &InvalidTemplateError{ID: a.ID, Reason: "unexpected template action"}
	}
	return nil
}

// ValidID reports whether id is safe to use as a file name or cache key
func ValidID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
