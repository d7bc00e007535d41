package authgate

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Token verification errors. These classify every failure mode of
// TokenService.Validate; attacker-controlled input can only ever surface as
// one of them, never as a panic.
var (
	// ErrTokenExpired is returned when a token's embedded expiry has passed
	ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
			WithTextCode("AUTH_TOKEN_EXPIRED").
			WithCode(errors.CodeUnauthorized)

	// ErrTokenMalformed is returned when the signature, encoding, or
	// structure of a token is invalid
	ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
			WithTextCode("AUTH_TOKEN_MALFORMED").
			WithCode(errors.CodeUnauthorized)

	// ErrTokenUnknown covers any other decode failure
	ErrTokenUnknown = errors.New("unable to decode token claims", errors.CategoryAuth).
			WithTextCode("AUTH_TOKEN_UNKNOWN").
			WithCode(errors.CodeUnauthorized)
)

// Account lifecycle and login errors.
var (
	// ErrAccountNotFound is the error we return for non found accounts
	ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
				WithTextCode("AUTH_ACCOUNT_NOT_FOUND").
				WithCode(errors.CodeNotFound)

	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered", errors.CategoryConflict).
			WithTextCode("AUTH_EMAIL_TAKEN").
			WithCode(errors.CodeConflict)

	// ErrInvalidCredentials is returned on password mismatch
	ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
				WithTextCode("AUTH_INVALID_CREDENTIALS").
				WithCode(errors.CodeUnauthorized)

	// ErrAccountNotVerified is returned when logging into a disabled account.
	// Credentials are never checked for disabled accounts.
	ErrAccountNotVerified = errors.New("account not verified", errors.CategoryAuth).
				WithTextCode("AUTH_ACCOUNT_NOT_VERIFIED").
				WithCode(errors.CodeForbidden)

	// ErrInvalidToken is returned when a one-shot verification or reset
	// token is unknown, already consumed, or otherwise not redeemable.
	// Clients get the same generic rejection as for expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryBadInput).
			WithTextCode("AUTH_INVALID_TOKEN").
			WithCode(errors.CodeBadRequest)

	// ErrExpiredToken is returned when a one-shot token exists but its
	// validity window has passed. The row is left in place for cleanup.
	ErrExpiredToken = errors.New("invalid or expired token", errors.CategoryBadInput).
			WithTextCode("AUTH_EXPIRED_TOKEN").
			WithCode(errors.CodeBadRequest)
)

// ErrNoEmptyPassword rejects empty cleartext passwords before hashing
var ErrNoEmptyPassword = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("AUTH_EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
