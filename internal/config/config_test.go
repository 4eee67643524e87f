package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"in": ["a.pdf", "b.docx"],
		"out": "out",
		"workers": 8,
		"user_id": "550e8400-e29b-41d4-a716-446655440000",
		"enhance": true,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"a.pdf", "b.docx"}, cfg.Inputs)
	assert.Equal(t, "out", cfg.Out)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", cfg.UserID)
	assert.True(t, cfg.Enhance)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Save)
}

func TestLoadConfig_Errors(t *testing.T) {
	invalid := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{ invalid json }`), 0644))

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"invalid json", invalid, "failed to parse config JSON"},
		{"file not found", "/nonexistent/path/config.json", "failed to read config file"},
		{"empty path", "", "config path is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path)
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(existing, []byte("cv"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty", Config{}, ""},
		{"valid", Config{Inputs: []string{existing}, Workers: 2, UserID: "550e8400-e29b-41d4-a716-446655440000"}, ""},
		{"in and url", Config{Inputs: []string{existing}, URL: "https://example.com"}, "mutually exclusive"},
		{"url and s3", Config{URL: "https://example.com", S3Key: "k"}, "mutually exclusive"},
		{"negative workers", Config{Workers: -1}, "'workers' must be non-negative"},
		{"bad user id", Config{UserID: "not-a-uuid"}, "invalid 'user_id'"},
		{"missing input", Config{Inputs: []string{filepath.Join(t.TempDir(), "nope.pdf")}}, "input file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	defaults := Config{
		Inputs:      []string{"default.pdf"},
		Out:         "default-out",
		Workers:     6,
		APIKey:      "file-key",
		DatabaseURL: "postgres://file",
		Save:        true,
	}

	partial := Config{
		Out:     "flag-out",
		Verbose: true,
	}

	merged := partial.MergeWithDefaults(defaults)

	assert.Equal(t, "flag-out", merged.Out)
	assert.Equal(t, []string{"default.pdf"}, merged.Inputs)
	assert.Equal(t, 6, merged.Workers)
	assert.Equal(t, "file-key", merged.APIKey)
	assert.Equal(t, "postgres://file", merged.DatabaseURL)
	assert.True(t, merged.Save)
	assert.True(t, merged.Verbose)
}

func TestMergeWithDefaults_FlagSourceWins(t *testing.T) {
	defaults := Config{Inputs: []string{"default.pdf"}}
	flags := Config{URL: "https://example.com/cv"}

	merged := flags.MergeWithDefaults(defaults)

	assert.Empty(t, merged.Inputs)
	assert.Equal(t, "https://example.com/cv", merged.URL)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Out: "out"}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "out", merged.Out)
	assert.Equal(t, DefaultWorkers, merged.Workers)
}

func TestParsedUserID(t *testing.T) {
	id, err := (&Config{}).ParsedUserID()
	assert.NoError(t, err)
	assert.Nil(t, id)

	id, err = (&Config{UserID: "550e8400-e29b-41d4-a716-446655440000"}).ParsedUserID()
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", id.String())

	_, err = (&Config{UserID: "x"}).ParsedUserID()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/resumes")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("PORT", "9000")
	t.Setenv("S3_BUCKET", "uploads")
	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_REGION", "")
	t.Setenv("S3_ACCESS_KEY_ID", "")
	t.Setenv("S3_SECRET_ACCESS_KEY", "")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/resumes", env.DatabaseURL)
	assert.Equal(t, "key", env.GeminiAPIKey)
	assert.Equal(t, 9000, env.Port)
	assert.True(t, env.S3Enabled())
	assert.Equal(t, "uploads", env.S3Config().Bucket)
	assert.Equal(t, "http://localhost:9000", env.S3Config().Endpoint)
}

func TestLoadEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad port", map[string]string{"PORT": "http"}, "invalid PORT"},
		{"port out of range", map[string]string{"PORT": "70000"}, "invalid PORT"},
		{"half credentials", map[string]string{"S3_ACCESS_KEY_ID": "id", "S3_SECRET_ACCESS_KEY": ""}, "must be set together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PORT", "")
			t.Setenv("S3_ACCESS_KEY_ID", "")
			t.Setenv("S3_SECRET_ACCESS_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadEnv()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
