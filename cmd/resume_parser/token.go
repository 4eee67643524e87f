package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token",
	Long:  "Signs a bearer token for the given user with JWT_SECRET, for calling a server started with auth enabled.",
	RunE:  runToken,
}

var tokenUserID string

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "UUID of the user the token is issued for (default: a new random UUID)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	userID := uuid.New()
	if tokenUserID != "" {
		userID, err = uuid.Parse(tokenUserID)
		if err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
	}

	service := server.NewJWTService(jwtConfig)
	token, err := service.GenerateToken(userID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "User: %s\n", userID)
	_, _ = fmt.Fprintf(out, "Expires in: %s\n", service.TokenLifetime())
	_, _ = fmt.Fprintf(out, "Token: %s\n", token)
	return nil
}
