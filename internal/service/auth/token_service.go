package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService issues and checks the bearer tokens that bind a client to a
// calculator session. Sessions are anonymous: holding the token is what
// grants access to the session it names.
type TokenService interface {
	// IssueToken creates a signed token for the session.
	// Returns the token string and its expiry.
	IssueToken(ctx context.Context, sessionID uuid.UUID) (string, time.Time, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of a session token.
type Claims struct {
	// SessionID is the session the token was issued for.
	SessionID uuid.UUID `json:"sid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
