// Package llm - extractor.go builds prompts for structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON document the model is asked to produce
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeRecords")
	Description string        // System instruction describing the extraction task
	Fields      []SchemaField // Expected top-level output fields
}

// SchemaField defines a single field in the extraction output
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint rendered into the prompt
	Description string // Description for the model
	Required    bool   // Whether this field is required
}

// SystemInstruction returns the system instruction for the schema
func (s ExtractionSchema) SystemInstruction() string {
	return strings.TrimSpace(s.Description)
}

// BuildExtractionPrompt renders the expected output structure followed by the input text
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

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
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ResumeRecordsSchema returns the extraction schema for experiences, education and skills
func ResumeRecordsSchema(instructions string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeRecords",
		Description: instructions,
		Fields: []SchemaField{
			{
				Name:        "experiences",
				Type:        `[{"organization": "string", "role_title": "string", "section_label": "string", "location": "string", "start_date": "string", "end_date": "string", "is_current": bool, "summary": "string", "achievements": ["string"], "skills": ["string"]}]`,
				Description: "Every job, internship, project, leadership role and activity; one achievement per bullet, verbatim",
				Required:    true,
			},
			{
				Name:        "education",
				Type:        `[{"institution": "string", "degree": "string", "field_of_study": "string", "start_date": "string", "end_date": "string", "achievements": ["string"]}]`,
				Description: "Every school attended; GPA, honors and coursework go in achievements",
				Required:    true,
			},
			{
				Name:        "skills",
				Type:        `[{"category": "string", "skills": ["string"]}]`,
				Description: "Skill groups as labeled on the résumé",
				Required:    true,
			},
		},
	}
}
