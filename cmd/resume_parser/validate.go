package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/observability"
	"github.com/jonathan/resume-parser/internal/schemas"
	schemafiles "github.com/jonathan/resume-parser/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate JSON against a JSON Schema",
	Long: `Validates a JSON file against a JSON Schema. --schema is a file path or the name of a
bundled schema (parsed_resume.schema.json, experience_bank.schema.json, skill_gap.schema.json).
Without --schema the bundled parsed résumé schema is used.`,
	RunE:  runValidate,
}

var (
	validateJSONPath   string
	validateSchemaPath string
)

func init() {
	validateCmd.Flags().StringVar(&validateJSONPath, "json", "", "Path to JSON file to validate (required)")
	validateCmd.Flags().StringVar(&validateSchemaPath, "schema", "", "JSON Schema file or bundled schema name (default: parsed_resume.schema.json)")

	if err := validateCmd.MarkFlagRequired("json"); err != nil {
		panic(fmt.Sprintf("failed to mark json flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(validateJSONPath)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}

	switch {
	case validateSchemaPath == "":
		err = schemas.ValidateParsedResume(data)
	case isBundledSchema(validateSchemaPath):
		err = schemas.ValidateEmbedded(validateSchemaPath, data)
	default:
		err = schemas.ValidateJSON(validateSchemaPath, validateJSONPath)
	}

	out := cmd.OutOrStdout()
	if err == nil {
		_, _ = fmt.Fprintln(out, "Validation passed")
		return nil
	}

	var validationErr *schemas.ValidationError
	if !errors.As(err, &validationErr) {
		return err
	}

	problems := make([]string, len(validationErr.Errors))
	for i, fieldErr := range validationErr.Errors {
		problems[i] = fmt.Sprintf("%s: %s", fieldErr.Field, fieldErr.Message)
	}

	_, _ = fmt.Fprintln(out, "Validation failed")
	observability.NewPrinter(out).PrintValidation(problems)
	return fmt.Errorf("%s does not match the schema (%d problems)", validateJSONPath, len(problems))
}

// isBundledSchema reports whether name refers to an embedded schema rather
// than a file in the working directory
func isBundledSchema(name string) bool {
	if _, err := os.Stat(name); err == nil {
		return false
	}
	return schemafiles.Has(name)
}
