package auth

import "crypto/subtle"

// SharedCredential is the single static operator credential accepted over
// HTTP Basic auth.
type SharedCredential struct {
	username []byte
	password []byte
}

// NewSharedCredential builds the credential from configuration.
func NewSharedCredential(username, password string) SharedCredential {
	return SharedCredential{
		username: []byte(username),
		password: []byte(password),
	}
}

// Username returns the configured username, used as the identity label.
func (c SharedCredential) Username() string {
	return string(c.username)
}

// Matches reports whether both values equal the configured pair. Both
// comparisons always run and each takes time independent of where the
// inputs differ.
func (c SharedCredential) Matches(username, password string) bool {
	if len(c.username) == 0 {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), c.username)
	passOK := subtle.ConstantTimeCompare([]byte(password), c.password)
	return userOK&passOK == 1
}
