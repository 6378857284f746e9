package domain

import "github.com/google/uuid"

// AuthMethod names how a request proved who it is.
type AuthMethod string

// The closed set of identity variants. Any other request is rejected.
const (
	AuthMethodToken  AuthMethod = "token"
	AuthMethodShared AuthMethod = "shared"
)

// Labels written to the audit trail when no identity is available.
const (
	PerformedBySystem  = "system"
	PerformedByUnknown = "unknown"
)

// Identity is the resolved acting principal for a request.
type Identity struct {
	Method   AuthMethod
	Username string
	// UserID is only set for token identities.
	UserID *uuid.UUID
	Email  string
}

// NewTokenIdentity builds the identity carried by a verified session token.
func NewTokenIdentity(userID uuid.UUID, username, email string) *Identity {
	id := userID
	return &Identity{
		Method:   AuthMethodToken,
		Username: username,
		UserID:   &id,
		Email:    email,
	}
}

// NewSharedIdentity builds the identity of the static operator credential.
func NewSharedIdentity(username string) *Identity {
	return &Identity{
		Method:   AuthMethodShared,
		Username: username,
	}
}

// Label returns the display name used for audit entries, or fallback when
// the identity is missing or anonymous.
func (i *Identity) Label(fallback string) string {
	if i == nil || i.Username == "" {
		return fallback
	}
	return i.Username
}
