package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
)

// JWTService issues and verifies signed session tokens.
type JWTService interface {
	// GenerateToken creates a signed token carrying the user's id, username
	// and email.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken checks the algorithm, signature and expiry of tokenString
	// and returns its claims. Malformed or mis-signed tokens yield
	// ErrInvalidToken and expired ones ErrExpiredToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the verified content of a session token.
type Claims struct {
	UserID   uuid.UUID `json:"userId"`
	Username string    `json:"username"`
	Email    string    `json:"email"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Identity converts verified claims into the request identity.
func (c *Claims) Identity() *domain.Identity {
	return domain.NewTokenIdentity(c.UserID, c.Username, c.Email)
}
