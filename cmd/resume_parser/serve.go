package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes REST endpoints for parsing résumés.

DATABASE_URL enables persistence, GEMINI_API_KEY enables enhancement, S3_BUCKET stores uploaded
originals and JWT_SECRET requires bearer tokens on /resumes and /users. PORT is used unless --port
is given.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := serverConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// serverConfig builds the server configuration from the environment and flags
func serverConfig() (server.Config, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return server.Config{}, err
	}

	cfg := server.Config{
		Port:        env.Port,
		DatabaseURL: env.DatabaseURL,
		APIKey:      env.GeminiAPIKey,
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	if env.S3Enabled() {
		s3 := env.S3Config()
		cfg.S3 = &s3
	}

	if config.JWTEnabled() {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return server.Config{}, fmt.Errorf("failed to load JWT config: %w", err)
		}
		cfg.JWT = jwtConfig
	}

	return cfg, nil
}
