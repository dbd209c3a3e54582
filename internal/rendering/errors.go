package rendering

import "fmt"

// TemplateError reports a skeleton that text/template rejected. Stage is
// "parse" or "execute".
type TemplateError struct {
	TemplateID string
	Stage      string
	Cause      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q failed to %s: %v", e.TemplateID, e.Stage, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a render that could not start because no template
// could be resolved for the requested id
type RenderError struct {
	TemplateID string
	Cause      error
}

func (e *RenderError) Error() string {
	if e.TemplateID == "" {
		return fmt.Sprintf("render failed: no template available: %v", e.Cause)
	}
	return fmt.Sprintf("render failed for template %q: %v", e.TemplateID, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
