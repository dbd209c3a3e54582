// Package schemas validates JSON documents crossing the engine boundary:
// resume input, AI match judgments and AI job requirement extractions.
package schemas

import (
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names
const (
	Resume         = "resume.schema.json"
	MatchResponse  = "match_response.schema.json"
	JobRequirement = "job_requirement.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("\n  %d. %s: %s", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = make(map[string]*gojsonschema.Schema)
)

// load compiles an embedded schema once
func load(name string) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()
	if s, ok := compiled[name]; ok {
		return s, nil
	}

	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "embedded schema not found", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks a JSON document against an embedded schema
func Validate(name string, doc []byte) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	return check(s.Validate(gojsonschema.NewBytesLoader(doc)))
}

// ValidateValue checks an already-decoded value against an embedded schema
func ValidateValue(name string, v interface{}) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	return check(s.Validate(gojsonschema.NewGoLoader(v)))
}

// ValidateResume checks raw resume input
func ValidateResume(doc []byte) error {
	return Validate(Resume, doc)
}

// ValidateMatchResponse checks a decoded AI match judgment
func ValidateMatchResponse(v interface{}) error {
	return ValidateValue(MatchResponse, v)
}

// ValidateJobRequirement checks a decoded AI job requirement extraction
func ValidateJobRequirement(v interface{}) error {
	return ValidateValue(JobRequirement, v)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "schema validation failed during load", Cause: err}
	}
	return check(result, nil)
}

// ValidateFile validates a JSON file on disk against a schema file on disk
func ValidateFile(schemaPath, jsonPath string) error {
	schemaAbs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	jsonAbs, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(schemaAbs)),
		gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(jsonAbs)),
	)
	if err != nil {
		return &SchemaLoadError{Path: schemaAbs, Message: "schema validation failed during load", Cause: err}
	}
	return check(result, nil)
}

func check(result *gojsonschema.Result, err error) error {
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
