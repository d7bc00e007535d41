package social

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/halcyonsoft/authgate"
)

// Profile is the canonical identity derived from provider attributes.
type Profile struct {
	Provider    string
	Email       string
	DisplayName string
	Login       string
	// Synthesized is true when the provider exposed no email address and we
	// derived one from the login handle.
	Synthesized bool
}

// ProfileFromAttributes normalizes the attribute map a provider hands back
// after a successful external login.
//
// Email resolution: the provider's "email" attribute wins; without one we
// synthesize "<login>@<provider>.local" from the "login" handle. Neither
// present fails with ErrMissingIdentity.
//
// Display name resolution: "name" attribute, else the login handle, else the
// local part of the resolved email.
func ProfileFromAttributes(provider string, attrs map[string]any) (*Profile, error) {
	email := stringAttr(attrs, "email")
	login := stringAttr(attrs, "login")
	name := stringAttr(attrs, "name")

	synthesized := false
	if email == "" {
		if login == "" {
			return nil, errors.Wrap(
				ErrMissingIdentity,
				errors.CategoryAuth,
				fmt.Sprintf("provider %s returned neither email nor login", provider),
			)
		}
		email = fmt.Sprintf("%s@%s.local", login, provider)
		synthesized = true
	}

	displayName := name
	if displayName == "" {
		displayName = login
	}
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}

	return &Profile{
		Provider:    provider,
		Email:       email,
		DisplayName: displayName,
		Login:       login,
		Synthesized: synthesized,
	}, nil
}

func stringAttr(attrs map[string]any, key string) string {
	raw, ok := attrs[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// Provisioner resolves externally-authenticated identities to local accounts
// and issues sessions through the same path password login uses.
type Provisioner struct {
	accounts    authgate.Accounts
	issuer      authgate.SessionIssuer
	logger      authgate.Logger
	defaultRole authgate.AccountRole
}

// ProvisionerOption configures the provisioner.
type ProvisionerOption func(*Provisioner)

// NewProvisioner creates a provisioner over the account store and session
// issuer shared with the password login path.
func NewProvisioner(accounts authgate.Accounts, issuer authgate.SessionIssuer, opts ...ProvisionerOption) *Provisioner {
	p := &Provisioner{
		accounts:    accounts,
		issuer:      issuer,
		defaultRole: authgate.RoleStandard,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	return p
}

// WithLogger sets the provisioner logger.
func WithLogger(logger authgate.Logger) ProvisionerOption {
	return func(p *Provisioner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithDefaultRole sets the role assigned to first-sight accounts.
func WithDefaultRole(role authgate.AccountRole) ProvisionerOption {
	return func(p *Provisioner) {
		if authgate.IsValidRole(role) {
			p.defaultRole = role
		}
	}
}

// OnExternalLoginSuccess derives a canonical identity from the provider
// attributes, creates an account on first sight, and issues a session.
//
// First-sight accounts are enabled immediately. The external provider already
// verified the identity, so the email verification step password signups go
// through would only lock legitimate users out. The stored password value is
// a sentinel that can never match a bcrypt comparison, keeping the account
// off the password login path.
func (p *Provisioner) OnExternalLoginSuccess(ctx context.Context, provider string, attrs map[string]any) (*authgate.IssuedSession, error) {
	profile, err := ProfileFromAttributes(provider, attrs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account, err := p.accounts.GetOrCreate(ctx, &authgate.Account{
		Name:         profile.DisplayName,
		Email:        profile.Email,
		PasswordHash: authgate.SentinelOAuthPassword,
		Enabled:      true,
		Role:         p.defaultRole,
	})
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(
			ErrProvisionFailed,
			errors.CategoryInternal,
			fmt.Sprintf("account resolution failed for provider %s: %v", provider, err),
		).WithTextCode(TextCodeProvisionFailed).
			WithCode(errors.CodeInternal)
	}

	if p.logger != nil && profile.Synthesized {
		p.logger.Debug("synthesized email for external login", "provider", provider, "email", profile.Email)
	}

	return p.issuer.IssueSession(ctx, account)
}
