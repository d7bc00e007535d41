package authgate

import (
	"context"

	"github.com/goliatone/go-errors"
)

// IssuedSession is what both login entry points hand back to the client:
// the signed token plus enough account detail to bootstrap a UI.
type IssuedSession struct {
	Token     string      `json:"token"`
	AccountID string      `json:"account_id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      AccountRole `json:"role"`
}

// SessionIssuer is the single token issuance path. Password login and OAuth
// provisioning both terminate here rather than minting tokens themselves.
type SessionIssuer interface {
	IssueSession(ctx context.Context, account *Account) (*IssuedSession, error)
}

type sessionIssuer struct {
	tokens TokenService
}

// NewSessionIssuer returns a SessionIssuer backed by the given TokenService.
func NewSessionIssuer(tokens TokenService) SessionIssuer {
	return &sessionIssuer{tokens: tokens}
}

func (s *sessionIssuer) IssueSession(_ context.Context, account *Account) (*IssuedSession, error) {
	if account == nil {
		return nil, errors.New("cannot issue session for nil account", errors.CategoryInternal)
	}

	var roles []string
	if account.Role != "" {
		roles = []string{string(account.Role)}
	}

	token, err := s.tokens.Generate(account.Email, roles...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to issue session token")
	}

	return &IssuedSession{
		Token:     token,
		AccountID: account.ID.String(),
		Name:      account.Name,
		Email:     account.Email,
		Role:      account.Role,
	}, nil
}
