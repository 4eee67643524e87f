// Package schemas validates parsed résumés and derived documents against JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	schemafiles "github.com/jonathan/resume-parser/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
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

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSON validates a JSON file against a JSON Schema file
func ValidateJSON(schemaPath, jsonPath string) error {
	schemaAbsPath, err := resolveExisting(schemaPath, "schema")
	if err != nil {
		return err
	}
	jsonAbsPath, err := resolveExisting(jsonPath, "JSON")
	if err != nil {
		return err
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewReferenceLoader("file://"+jsonAbsPath),
	)
}

// ValidateBytes validates an in-memory JSON document against a JSON Schema file
func ValidateBytes(schemaPath string, data []byte) error {
	schemaAbsPath, err := resolveExisting(schemaPath, "schema")
	if err != nil {
		return err
	}

	return validate(
		schemaAbsPath,
		gojsonschema.NewReferenceLoader("file://"+schemaAbsPath),
		gojsonschema.NewBytesLoader(data),
	)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	return validate(
		"(string schema)",
		gojsonschema.NewStringLoader(schemaContent),
		gojsonschema.NewStringLoader(jsonContent),
	)
}

// ValidateEmbedded validates data against one of the schemas shipped with the
// binary, such as the parsed résumé schema. It needs no files on disk, so servers
// can validate edits regardless of their working directory.
func ValidateEmbedded(name string, data []byte) error {
	schemaContent, err := schemafiles.Read(name)
	if err != nil {
		return &SchemaLoadError{Path: name, Message: "embedded schema not found", Cause: err}
	}
	return validate(name, gojsonschema.NewBytesLoader(schemaContent), gojsonschema.NewBytesLoader(data))
}

// ValidateParsedResume validates a marshaled ParsedResume against the embedded schema
func ValidateParsedResume(data []byte) error {
	return ValidateEmbedded(schemafiles.ParsedResume, data)
}

// resolveExisting returns the absolute form of path, or an error naming kind when it does not exist
func resolveExisting(path, kind string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s path: %w", kind, err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s file not found: %s", kind, absPath)
	}
	return absPath, nil
}

func validate(schemaName string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		// covers unresolvable $ref, invalid schema syntax and unparsable documents
		return &SchemaLoadError{
			Path:    schemaName,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
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
