package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes a structured extraction task: the instruction
// preamble plus the JSON fields the model must return.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField is one field of the extraction output
type SchemaField struct {
	Name        string // JSON field name
	Type        string // type hint shown to the model
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and the (already quoted) input text
// into a single prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(schema.Description))
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  %q: %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(" // " + field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information from the text only; do not invent requirements.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString(inputText)
	sb.WriteString("\n")

	return sb.String()
}

// JobRequirementsSchema is the extraction schema for job postings. The
// description comes from the prompt catalogue so it can change without a
// code change.
func JobRequirementsSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobRequirements",
		Description: description,
		Fields: []SchemaField{
			{Name: "title", Description: "Job title as written"},
			{Name: "company", Description: "Hiring company, if stated"},
			{Name: "requiredSkills", Type: `["string"]`, Description: "Skills, tools and technologies the posting requires", Required: true},
			{Name: "preferredSkills", Type: `["string"]`, Description: "Nice-to-have skills"},
			{Name: "experienceLevel", Type: `"entry" | "mid" | "senior" | "executive"`, Description: "Seniority implied by title and years required", Required: true},
			{Name: "responsibilities", Type: `["string"]`, Description: "Day-to-day duties"},
			{Name: "qualifications", Type: `["string"]`, Description: "Degrees, certifications, years of experience"},
			{Name: "keywords", Type: `["string"]`, Description: "Lower-case domain keywords an ATS would match on", Required: true},
		},
	}
}
