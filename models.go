package authgate

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountRole is the account's role
type AccountRole = string

const (
	// RoleStandard is the default role assigned at registration
	RoleStandard AccountRole = "standard"
	// RoleAdministrator has full system privileges
	RoleAdministrator AccountRole = "administrator"
)

// VerificationTokenTTL is how long an email verification token stays valid.
var VerificationTokenTTL = 24 * time.Hour

// PasswordResetTokenTTL is how long a password reset token stays valid.
// Deliberately much shorter than the verification window.
var PasswordResetTokenTTL = 30 * time.Minute

// Account is the account model. Enabled gates password login: accounts
// created through registration start disabled until the verification token
// is consumed, accounts provisioned through OAuth start enabled.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID   `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string      `bun:"name,notnull" json:"name,omitempty"`
	Email         string      `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string      `bun:"password_hash" json:"-"`
	Enabled       bool        `bun:"enabled,notnull" json:"enabled"`
	Role          AccountRole `bun:"role,notnull" json:"role,omitempty"`
	CreatedAt     *time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time  `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureRole applies the default role to records created without one.
func (a *Account) EnsureRole() {
	if a.Role == "" {
		a.Role = RoleStandard
	}
}

// VerificationToken is a one-shot email verification token. Consuming it
// flips the owning account to enabled and deletes the row; expired rows are
// rejected on consumption and left for cleanup.
type VerificationToken struct {
	bun.BaseModel `bun:"table:verification_tokens,alias:vtk"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"token,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Account       *Account   `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the token's validity window has passed.
func (t *VerificationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// PasswordResetToken is a one-shot password reset token. Several unexpired
// reset tokens may coexist for one account; issuing a new one does not
// invalidate older ones.
type PasswordResetToken struct {
	bun.BaseModel `bun:"table:password_reset_tokens,alias:prt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token         string     `bun:"token,notnull,unique" json:"token,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	Account       *Account   `bun:"rel:belongs-to,join:account_id=id" json:"account,omitempty"`
	ExpiresAt     time.Time  `bun:"expires_at,notnull" json:"expires_at,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
}

// Expired reports whether the token's validity window has passed.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// NewOneShotToken returns an unguessable token string for verification and
// reset records.
func NewOneShotToken() string {
	return uuid.NewString()
}
