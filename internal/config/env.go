package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/resume-parser/internal/storage"
)

// DefaultPort is the HTTP port used when PORT is unset
const DefaultPort = 8080

// Env holds settings read from the environment, usually populated from .env
type Env struct {
	DatabaseURL  string
	GeminiAPIKey string
	Port         int

	S3Bucket          string
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LoadEnv reads DATABASE_URL, GEMINI_API_KEY, PORT and the S3_* variables.
func LoadEnv() (*Env, error) {
	env := &Env{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		Port:              DefaultPort,
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          os.Getenv("S3_REGION"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT: %q", portStr)
		}
		env.Port = port
	}

	if (env.S3AccessKeyID == "") != (env.S3SecretAccessKey == "") {
		return nil, fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}

	return env, nil
}

// S3Enabled reports whether object storage is configured
func (e *Env) S3Enabled() bool {
	return e.S3Bucket != ""
}

// S3Config converts the S3_* variables for storage.NewS3Store
func (e *Env) S3Config() storage.S3Config {
	return storage.S3Config{
		Bucket:          e.S3Bucket,
		Region:          e.S3Region,
		Endpoint:        e.S3Endpoint,
		AccessKeyID:     e.S3AccessKeyID,
		SecretAccessKey: e.S3SecretAccessKey,
	}
}
