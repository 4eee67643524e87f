// Package config loads the optional JSON config file for the CLI and the
// environment-driven settings shared by the CLI and the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DefaultWorkers is the batch concurrency used when neither the flag nor the file sets one
const DefaultWorkers = 4

// Config represents the CLI configuration that can be loaded from a JSON file.
// Every field mirrors a parse flag; flags win over file values.
type Config struct {
	// Inputs
	Inputs []string `json:"in,omitempty"`     // Résumé documents to parse
	URL    string   `json:"url,omitempty"`    // Hosted HTML résumé
	S3Key  string   `json:"s3_key,omitempty"` // Object key in S3_BUCKET

	// Output
	Out string `json:"out,omitempty"` // Output directory

	// Behavior
	Workers    int    `json:"workers,omitempty"`     // Documents parsed concurrently
	Save       bool   `json:"save,omitempty"`        // Persist results to DATABASE_URL
	Enhance    bool   `json:"enhance,omitempty"`     // Rewrite descriptions with Gemini
	UseBrowser bool   `json:"use_browser,omitempty"` // Headless browser for SPA résumé pages
	Verbose    bool   `json:"verbose,omitempty"`     // Print detailed debug information
	UserID     string `json:"user_id,omitempty"`     // Owner of saved results

	// Credentials
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values. Required inputs
// are checked by the CLI after merging, since flags may supply them.
func (c *Config) Validate() error {
	sources := 0
	if len(c.Inputs) > 0 {
		sources++
	}
	if c.URL != "" {
		sources++
	}
	if c.S3Key != "" {
		sources++
	}
	if sources > 1 {
		return fmt.Errorf("config error: 'in', 'url' and 's3_key' are mutually exclusive")
	}

	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	if c.UserID != "" {
		if _, err := uuid.Parse(c.UserID); err != nil {
			return fmt.Errorf("config error: invalid 'user_id': %w", err)
		}
	}

	for _, in := range c.Inputs {
		if _, err := os.Stat(in); os.IsNotExist(err) {
			return fmt.Errorf("config error: input file not found: %s", in)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Inputs) == 0 && result.URL == "" && result.S3Key == "" {
		result.Inputs = append([]string(nil), defaults.Inputs...)
		result.URL = defaults.URL
		result.S3Key = defaults.S3Key
	}
	if result.Out == "" {
		result.Out = defaults.Out
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	if result.Workers == 0 {
		if defaults.Workers > 0 {
			result.Workers = defaults.Workers
		} else {
			result.Workers = DefaultWorkers
		}
	}

	// Bools cannot distinguish unset from false, so a true on either side wins
	result.Save = result.Save || defaults.Save
	result.Enhance = result.Enhance || defaults.Enhance
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// ParsedUserID returns the user id as a UUID, or nil when unset
func (c *Config) ParsedUserID() (*uuid.UUID, error) {
	if c.UserID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", c.UserID, err)
	}
	return &id, nil
}
