// Package experience turns parsed résumé experience into an experience bank
// and loads or normalizes experience bank files.
package experience

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-parser/internal/types"
)

// LoadExperienceBank loads an experience bank from a JSON file
func LoadExperienceBank(path string) (*types.ExperienceBank, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}

	var bank types.ExperienceBank
	if err := json.Unmarshal(content, &bank); err != nil {
		return nil, &LoadError{Path: path, Message: "failed to unmarshal JSON from", Cause: err}
	}

	return &bank, nil
}

// WriteExperienceBank writes bank as pretty-printed JSON, creating parent directories
func WriteExperienceBank(path string, bank *types.ExperienceBank) error {
	jsonBytes, err := json.MarshalIndent(bank, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal experience bank: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write experience bank: %w", err)
	}
	return nil
}
