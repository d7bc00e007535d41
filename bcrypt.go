package authgate

import (
	"golang.org/x/crypto/bcrypt"
)

// SentinelOAuthPassword marks accounts provisioned through an external
// provider. It is not a valid bcrypt hash, so password login against such an
// account can never succeed.
const SentinelOAuthPassword = "OAUTH_ACCOUNT"

// HashPassword will generate a password hash
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext password matches
// the hashed password using a constant-time comparison
func ComparePasswordAndHash(password, hash string) error {
	// A sentinel or otherwise invalid stored hash fails here too, which is
	// exactly what we want: OAuth-only accounts are not password-loginable.
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
