// Package schemas provides JSON Schema validation for language model payloads
// and parsed résumé batches.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names
const (
	PayloadSchema = "resume_payload.schema.json"
	BatchSchema   = "parsed_resume_batch.schema.json"
)

const rootField = "(root)"

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
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

type compiledSchema struct {
	once   sync.Once
	schema *gojsonschema.Schema
	err    error
}

var compiled = map[string]*compiledSchema{
	PayloadSchema: {},
	BatchSchema:   {},
}

// load compiles an embedded schema once
func load(name string) (*gojsonschema.Schema, error) {
	c, ok := compiled[name]
	if !ok {
		return nil, &SchemaLoadError{Path: name, Message: "unknown schema"}
	}
	c.once.Do(func() {
		data, err := schemaFiles.ReadFile(name)
		if err != nil {
			c.err = &SchemaLoadError{Path: name, Message: "failed to read embedded schema", Cause: err}
			return
		}
		c.schema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			c.err = &SchemaLoadError{Path: name, Message: "failed to compile schema", Cause: err}
		}
	})
	return c.schema, c.err
}

// CategoryErrors maps a top-level payload key to its validation failure
type CategoryErrors map[string]*ValidationError

// ValidatePayload checks a decoded model response. It returns an error when the
// payload as a whole is unusable (not an object); otherwise each failing
// top-level key gets its own entry in the returned map.
func ValidatePayload(payload any) (CategoryErrors, error) {
	schema, err := load(PayloadSchema)
	if err != nil {
		return nil, err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, &SchemaLoadError{Path: PayloadSchema, Message: "failed to load document", Cause: err}
	}
	if result.Valid() {
		return CategoryErrors{}, nil
	}

	categories := CategoryErrors{}
	var root []FieldError
	for _, fe := range fieldErrors(result) {
		category := strings.SplitN(fe.Field, ".", 2)[0]
		if category == rootField {
			root = append(root, fe)
			continue
		}
		if categories[category] == nil {
			categories[category] = &ValidationError{}
		}
		categories[category].Errors = append(categories[category].Errors, fe)
	}

	if len(root) > 0 {
		return categories, &ValidationError{Errors: root}
	}
	return categories, nil
}

// ValidateBatch checks a value (typically a types.ParsedResumeBatch) against the
// canonical batch schema
func ValidateBatch(batch any) error {
	schema, err := load(BatchSchema)
	if err != nil {
		return err
	}
	return validate(schema, gojsonschema.NewGoLoader(batch), BatchSchema)
}

// ValidateBatchFile checks a JSON file against the canonical batch schema
func ValidateBatchFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	schema, err := load(BatchSchema)
	if err != nil {
		return err
	}
	return validate(schema, gojsonschema.NewBytesLoader(data), BatchSchema)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "failed to compile schema", Cause: err}
	}
	return validate(schema, gojsonschema.NewStringLoader(jsonContent), "(string schema)")
}

func validate(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader, name string) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "failed to load document", Cause: err}
	}
	if result.Valid() {
		return nil
	}
	return &ValidationError{Errors: fieldErrors(result)}
}

func fieldErrors(result *gojsonschema.Result) []FieldError {
	out := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = rootField
		}
		out = append(out, FieldError{Field: field, Message: desc.Description()})
	}
	return out
}
