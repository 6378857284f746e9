package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field limits for user accounts.
const (
	MaxUsernameLength = 50
	MaxEmailLength    = 150
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext, only held between signup and hashing
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Registration is the signup input after normalization.
type Registration struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email"    validate:"required,email,max=150"`
	Password string `json:"password" validate:"required,min=6,bcrypt_max"`
}

// Credentials is the signin input after normalization.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// NormalizeEmail trims and lower-cases an email address. Emails are stored
// and looked up in this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize returns a copy with the username trimmed and the email
// normalized. The password is left untouched.
func (r Registration) Normalize() Registration {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
	return r
}

// Validate reports every field that violates the signup rules.
func (r Registration) Validate() error {
	return validateStruct(r)
}

// Normalize returns a copy with the email normalized.
func (c Credentials) Normalize() Credentials {
	c.Email = NormalizeEmail(c.Email)
	return c
}

// Validate reports every field that violates the signin rules.
func (c Credentials) Validate() error {
	return validateStruct(c)
}

// NewUser creates a new User from raw signup input. The input is normalized
// and validated; the returned user still carries the plaintext password,
// which the credential store hashes before persisting.
func NewUser(username, email, password string) (*User, error) {
	reg := Registration{Username: username, Email: email, Password: password}.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	now := Now()
	return &User{
		ID:        uuid.New(),
		Username:  reg.Username,
		Email:     reg.Email,
		Password:  reg.Password,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Validate checks a user before it is persisted. A user must carry either a
// plaintext password awaiting hashing or an existing hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyID
	}

	if u.Password == "" && u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	reg := Registration{Username: u.Username, Email: u.Email, Password: u.Password}
	if u.Password == "" {
		// Only the identity fields can be checked against a stored hash.
		return validateStruct(struct {
			Username string `json:"username" validate:"required,max=50"`
			Email    string `json:"email"    validate:"required,email,max=150"`
		}{reg.Username, reg.Email})
	}
	return reg.Validate()
}
