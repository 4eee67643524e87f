package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/resume-parser/internal/config"
	"github.com/jonathan/resume-parser/internal/server/middleware"
)

// Claims are the claims of an API bearer token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// GetUserID implements middleware.UserIDGetter.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// JWTService signs and validates the bearer tokens accepted by the API.
// Accounts live outside this service; any issuer sharing the secret can
// mint tokens.
type JWTService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{config: cfg, now: time.Now}
}

// AsTokenValidator exposes ValidateToken to the auth middleware.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return middleware.TokenValidatorFunc(func(tokenString string) (middleware.UserIDGetter, error) {
		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			return nil, err
		}
		return claims, nil
	})
}

// TokenLifetime is how long generated tokens stay valid.
func (s *JWTService) TokenLifetime() time.Duration {
	return time.Duration(s.config.ExpirationHours) * time.Hour
}

// GenerateToken signs an HS256 token for userID, valid for TokenLifetime.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user ID cannot be nil")
	}

	issuedAt := jwt.NewNumericDate(s.now())
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  issuedAt,
			NotBefore: issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.TokenLifetime())),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// tokenErrors maps jwt parse failures to the messages clients see, in
// match order
var tokenErrors = []struct {
	err     error
	message string
}{
	{jwt.ErrTokenSignatureInvalid, "invalid token signature"},
	{jwt.ErrTokenExpired, "token expired"},
	{jwt.ErrTokenMalformed, "malformed token"},
}

// ValidateToken parses tokenString and returns its claims. Only HS256
// tokens with an expiry, from the configured issuer, are accepted.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil {
		for _, known := range tokenErrors {
			if errors.Is(err, known.err) {
				return nil, fmt.Errorf("%s: %w", known.message, err)
			}
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}
