package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// ValidationErrors unwraps to it, so errors.Is(err, ErrValidation) holds
	// for itemized failures too.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyID is returned when an entity carries the nil UUID.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrEmptyPassword is returned when a user has neither a plaintext
	// password nor a stored hash.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrInvalidAuditAction is returned when an audit entry names an unknown action.
	ErrInvalidAuditAction = errors.New("invalid audit action")

	// ErrUnauthorized is returned when an operation runs without an identity.
	ErrUnauthorized = errors.New("unauthorized operation")
)
