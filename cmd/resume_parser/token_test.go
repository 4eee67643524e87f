package main

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server"
)

const testJWTSecret = "test-secret-key-that-is-at-least-32-characters-long"

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")
	userID := uuid.New()

	stdout, _, err := executeCommand(t, "token", "--user-id", userID.String())
	require.NoError(t, err)

	var token string
	for _, line := range strings.Split(stdout, "\n") {
		if after, ok := strings.CutPrefix(line, "Token: "); ok {
			token = after
		}
	}
	require.NotEmpty(t, token)

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Contains(t, stdout, "Expires in: 24h0m0s")
}

func TestTokenCommand_Errors(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, _, err := executeCommand(t, "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", testJWTSecret)
	_, _, err = executeCommand(t, "token", "--user-id", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --user-id")
}
