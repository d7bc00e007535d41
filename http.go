package authgate

import (
	"strings"

	"github.com/goliatone/go-router"
)

// DefaultContextKey is where the request principal is stored when the
// config does not name one.
const DefaultContextKey = "principal"

// DefaultAuthScheme is the expected authorization header scheme.
const DefaultAuthScheme = "Bearer"

// RequestAuthenticator runs once per inbound request, before route policy.
// It extracts the bearer token, verifies it, resolves the subject to an
// account and attaches a Principal. It never aborts the request: a missing,
// expired, or tampered token just leaves the request unauthenticated and
// lets route-level policy decide.
type RequestAuthenticator struct {
	validator  TokenValidator
	accounts   Accounts
	contextKey string
	authScheme string
	logger     Logger
}

// NewRequestAuthenticator returns a request authenticator using the token
// validator and account store.
func NewRequestAuthenticator(validator TokenValidator, accounts Accounts, cfg Config) *RequestAuthenticator {
	contextKey := DefaultContextKey
	authScheme := DefaultAuthScheme

	if cfg != nil {
		if cfg.GetContextKey() != "" {
			contextKey = cfg.GetContextKey()
		}
		if cfg.GetAuthScheme() != "" {
			authScheme = cfg.GetAuthScheme()
		}
	}

	return &RequestAuthenticator{
		validator:  validator,
		accounts:   accounts,
		contextKey: contextKey,
		authScheme: authScheme,
		logger:     defLogger{},
	}
}

func (a *RequestAuthenticator) WithLogger(logger Logger) *RequestAuthenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// ContextKey returns the router locals key the principal is stored under.
func (a *RequestAuthenticator) ContextKey() string {
	return a.contextKey
}

// Middleware returns the authentication middleware. Attaching is skipped when
// a principal is already present so it composes with other entry points.
func (a *RequestAuthenticator) Middleware() router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw := ExtractBearerToken(ctx.GetString(router.HeaderAuthorization, ""), a.authScheme)
			if raw == "" {
				return next(ctx)
			}

			claims, err := a.validator.Validate(raw)
			if err != nil {
				if IsTokenExpiredError(err) {
					a.logger.Debug("request token expired", "path", ctx.Path())
				} else {
					a.logger.Warn("request token rejected", "path", ctx.Path(), "error", err)
				}
				return next(ctx)
			}

			if _, ok := GetRouterPrincipal(ctx, a.contextKey); ok {
				return next(ctx)
			}

			account, err := a.accounts.GetByEmail(ctx.Context(), claims.Subject())
			if err != nil {
				a.logger.Debug("request token subject has no account", "subject", claims.Subject())
				return next(ctx)
			}

			// independent re-validation guards against state that rotated
			// between the first check and the account load
			if _, err := a.validator.Validate(raw); err != nil {
				a.logger.Debug("request token failed re-validation", "subject", claims.Subject())
				return next(ctx)
			}

			principal := NewPrincipal(account)
			ctx.Locals(a.contextKey, principal)
			ctx.SetContext(WithPrincipal(ctx.Context(), principal))

			return next(ctx)
		}
	}
}

// GetRouterPrincipal extracts the Principal from the router context
func GetRouterPrincipal(ctx router.Context, key string) (*Principal, bool) {
	if key == "" {
		key = DefaultContextKey
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	principal, ok := raw.(*Principal)
	return principal, ok
}

// ExtractBearerToken pulls the credential out of an authorization header
// value. An absent header or unexpected scheme yields the empty string.
func ExtractBearerToken(header, authScheme string) string {
	if authScheme == "" {
		authScheme = DefaultAuthScheme
	}
	authScheme = strings.TrimSpace(authScheme)

	l := len(authScheme)
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		return strings.TrimSpace(header[l:])
	}
	return ""
}

// RequireAuthenticated rejects requests that carry no principal.
func RequireAuthenticated(contextKey string) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if _, ok := GetRouterPrincipal(ctx, contextKey); !ok {
				return ctx.JSON(router.StatusUnauthorized, map[string]string{
					"error": "authentication required",
				})
			}
			return next(ctx)
		}
	}
}

// RequireRole rejects requests whose principal does not hold the role.
// Anonymous requests get 401, authenticated-but-unauthorized get 403.
func RequireRole(contextKey string, role AccountRole) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			principal, ok := GetRouterPrincipal(ctx, contextKey)
			if !ok {
				return ctx.JSON(router.StatusUnauthorized, map[string]string{
					"error": "authentication required",
				})
			}
			if !principal.HasRole(role) {
				return ctx.JSON(router.StatusForbidden, map[string]string{
					"error": "insufficient role",
				})
			}
			return next(ctx)
		}
	}
}
