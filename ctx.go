package authgate

import (
	"context"
)

// Principal is the resolved identity attached to a request after successful
// authentication. Its lifetime is one request.
type Principal struct {
	Account     *Account
	Authorities []string
}

// NewPrincipal builds a Principal for the account with authorities derived
// from its role.
func NewPrincipal(account *Account) *Principal {
	if account == nil {
		return nil
	}
	return &Principal{
		Account:     account,
		Authorities: AuthoritiesForRole(account.Role),
	}
}

// HasAuthority reports whether the principal carries the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasRole reports whether the principal's account has the given role.
func (p *Principal) HasRole(role AccountRole) bool {
	if p == nil || p.Account == nil {
		return false
	}
	return p.Account.Role == role
}

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	return raw, ok
}
