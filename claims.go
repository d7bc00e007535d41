package authgate

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the verified contents of an auth token
type AuthClaims interface {
	Subject() string
	Roles() []string
	HasRole(role string) bool
	IsAtLeast(minRole string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// JWTClaims is the concrete implementation of AuthClaims. The subject is the
// account email; the roles claim is optional and its absence decodes to an
// empty set, not an error.
type JWTClaims struct {
	jwt.RegisteredClaims
	RoleClaims []string `json:"roles,omitempty"`
}

// Verify interface compliance
var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Roles returns the roles claim, empty when absent
func (c *JWTClaims) Roles() []string {
	if c.RoleClaims == nil {
		return []string{}
	}
	return c.RoleClaims
}

// HasRole checks if the roles claim carries a specific role
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.RoleClaims {
		if r == role {
			return true
		}
	}
	return false
}

// IsAtLeast checks if any carried role meets the minimum required level
func (c *JWTClaims) IsAtLeast(minRole string) bool {
	for _, r := range c.RoleClaims {
		if RoleIsAtLeast(AccountRole(r), AccountRole(minRole)) {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
