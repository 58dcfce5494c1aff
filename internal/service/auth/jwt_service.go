// Package auth provides JWT token issuance/validation and password
// hashing for the API's identity layer. The rest of the core only ever
// sees the stable user ID the token carries; an absent user ID means
// anonymous, and anonymous progress is never persisted.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token validation errors.
var (
	// ErrInvalidToken is returned when a token fails parsing or signature checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when an access token has expired.
	ErrExpiredToken = errors.New("token expired")

	// ErrExpiredRefreshToken is returned when a refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token expired")

	// ErrWrongTokenType is returned when an access token is presented where
	// a refresh token is expected, or vice versa.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims are the validated contents of a token.
type Claims struct {
	UserID    uuid.UUID
	TokenType string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// JWTService issues and validates the access/refresh token pair.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token and returns its claims.
	// Returns ErrExpiredToken, ErrInvalidToken, or ErrWrongTokenType.
	ValidateToken(ctx context.Context, token string) (*Claims, error)

	// GenerateRefreshToken creates a signed refresh token for the user.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateRefreshToken validates a refresh token and returns its claims.
	// Returns ErrExpiredRefreshToken, ErrInvalidToken, or ErrWrongTokenType.
	ValidateRefreshToken(ctx context.Context, token string) (*Claims, error)
}
