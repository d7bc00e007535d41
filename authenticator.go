package authgate

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Authenticator holds methods to deal with password authentication
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*IssuedSession, error)
}

// Auther authenticates email/password credentials and issues sessions.
type Auther struct {
	accounts     Accounts
	tokenService TokenService
	issuer       SessionIssuer
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(accounts Accounts, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetSigningMethod(),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	return &Auther{
		accounts:     accounts,
		tokenService: tokenService,
		issuer:       NewSessionIssuer(tokenService),
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithSessionIssuer overrides the issuance path shared with OAuth login.
func (s *Auther) WithSessionIssuer(issuer SessionIssuer) *Auther {
	if issuer != nil {
		s.issuer = issuer
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Login validates the credentials and issues a session token. Disabled
// accounts are rejected before the password is ever compared, so a failed
// login against an unverified account leaks nothing about the password.
func (s *Auther) Login(ctx context.Context, email, password string) (*IssuedSession, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("Login account not found", "email", email)
			return nil, ErrAccountNotFound
		}
		s.logger.Error("Login account lookup error", "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve account during login")
	}

	if !account.Enabled {
		s.logger.Warn("Login blocked for unverified account", "email", email)
		return nil, ErrAccountNotVerified
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		s.logger.Debug("Login password mismatch", "email", email)
		return nil, ErrInvalidCredentials
	}

	session, err := s.issuer.IssueSession(ctx, account)
	if err != nil {
		s.logger.Error("Login session issuance error", "error", err)
		return nil, err
	}

	return session, nil
}
