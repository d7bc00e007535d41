package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/halcyonsoft/authgate"
	"github.com/halcyonsoft/authgate/social"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"
)

// envConfig implements authgate.Config from environment variables.
type envConfig struct {
	signingKey      string
	signingMethod   string
	contextKey      string
	tokenExpiration int
	authScheme      string
	issuer          string
	audience        []string
	dsn             string
	serverAddr      string
	baseURL         string
	debug           bool
	smtp            authgate.SMTPConfig
}

func (c *envConfig) GetSigningKey() string    { return c.signingKey }
func (c *envConfig) GetSigningMethod() string { return c.signingMethod }
func (c *envConfig) GetContextKey() string    { return c.contextKey }
func (c *envConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c *envConfig) GetAuthScheme() string    { return c.authScheme }
func (c *envConfig) GetIssuer() string        { return c.issuer }
func (c *envConfig) GetAudience() []string    { return c.audience }

func loadConfig() *envConfig {
	_ = godotenv.Load()

	cfg := &envConfig{
		signingKey:      envOr("AUTH_SIGNING_KEY", ""),
		signingMethod:   envOr("AUTH_SIGNING_METHOD", "HS256"),
		contextKey:      envOr("AUTH_CONTEXT_KEY", authgate.DefaultContextKey),
		tokenExpiration: envIntOr("AUTH_TOKEN_EXPIRATION", 60),
		authScheme:      envOr("AUTH_SCHEME", authgate.DefaultAuthScheme),
		issuer:          envOr("AUTH_ISSUER", "authgate"),
		dsn:             envOr("DATABASE_DSN", "file::memory:?cache=shared"),
		serverAddr:      envOr("SERVER_ADDR", ":8572"),
		baseURL:         envOr("BASE_URL", "http://localhost:8572"),
		debug:           envOr("DEBUG", "") != "",
		smtp: authgate.SMTPConfig{
			Host: envOr("SMTP_HOST", ""),
			Port: envIntOr("SMTP_PORT", 587),
			User: envOr("SMTP_USER", ""),
			Pass: envOr("SMTP_PASS", ""),
			From: envOr("SMTP_FROM", ""),
		},
	}

	if aud := envOr("AUTH_AUDIENCE", ""); aud != "" {
		cfg.audience = strings.Split(aud, ",")
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// zapLogger adapts a zap sugared logger to authgate.Logger. Call sites use
// both printf templates and key-value pairs, so we route on the format.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(format string, args ...any) { l.emit(l.s.Debugf, l.s.Debugw, format, args) }
func (l zapLogger) Info(format string, args ...any)  { l.emit(l.s.Infof, l.s.Infow, format, args) }
func (l zapLogger) Warn(format string, args ...any)  { l.emit(l.s.Warnf, l.s.Warnw, format, args) }
func (l zapLogger) Error(format string, args ...any) { l.emit(l.s.Errorf, l.s.Errorw, format, args) }

func (l zapLogger) emit(
	printf func(string, ...any),
	structured func(string, ...any),
	format string,
	args []any,
) {
	if strings.Contains(format, "%") {
		printf(format, args...)
		return
	}
	structured(format, args...)
}

func main() {
	cfg := loadConfig()

	var zl *zap.Logger
	var err error
	if cfg.debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	logger := zapLogger{s: zl.Sugar()}

	if cfg.signingKey == "" {
		zl.Fatal("AUTH_SIGNING_KEY is required")
	}

	if cfg.debug {
		fmt.Println("============")
		fmt.Println(print.MaybeHighlightJSON(map[string]any{
			"server_addr":      cfg.serverAddr,
			"base_url":         cfg.baseURL,
			"token_expiration": cfg.tokenExpiration,
			"issuer":           cfg.issuer,
			"smtp_configured":  cfg.smtp.Host != "",
		}))
		fmt.Println("============")
	}

	ctx := context.Background()

	db, err := newDB(ctx, cfg.dsn)
	if err != nil {
		zl.Sugar().Fatalw("failed to open database", "error", err)
	}

	repo := authgate.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		zl.Sugar().Fatalw("repository manager misconfigured", "error", err)
	}

	var mailer authgate.Mailer
	if cfg.smtp.Host != "" {
		mailer = authgate.NewSMTPMailer(cfg.smtp, logger)
	} else {
		mailer = authgate.NewLogMailer(logger)
	}

	auther := authgate.NewAuthenticator(repo.Accounts(), cfg).
		WithLogger(logger)

	register := authgate.NewRegisterAccountHandler(repo, mailer).
		WithLogger(logger).
		WithBaseURL(cfg.baseURL)

	verify := authgate.NewVerifyEmailHandler(repo).
		WithLogger(logger)

	resetInit := authgate.NewInitializePasswordResetHandler(repo, mailer).
		WithLogger(logger).
		WithBaseURL(cfg.baseURL)

	resetFinalize := authgate.NewFinalizePasswordResetHandler(repo).
		WithLogger(logger)

	reqAuth := authgate.NewRequestAuthenticator(auther.TokenService(), repo.Accounts(), cfg).
		WithLogger(logger)

	provisioner := social.NewProvisioner(
		repo.Accounts(),
		authgate.NewSessionIssuer(auther.TokenService()),
		social.WithLogger(logger),
	)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "authgate",
			StrictRouting: false,
		}))
	})

	srv.Router().Use(reqAuth.Middleware())

	authgate.RegisterAuthRoutes(srv.Router(),
		authgate.WithAuthenticator(auther),
		authgate.WithLifecycleHandlers(register, verify, resetInit, resetFinalize),
		authgate.WithControllerLogger(logger),
		authgate.WithControllerDebug(cfg.debug),
	)

	registerOAuthRoutes(srv.Router(), provisioner)
	registerProtectedRoutes(srv.Router(), cfg.contextKey)

	srv.Serve(cfg.serverAddr)

	WaitExitSignal()
}

func newDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*authgate.Account)(nil),
		(*authgate.VerificationToken)(nil),
		(*authgate.PasswordResetToken)(nil),
	}

	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return nil, err
		}
	}

	return db, nil
}

type oauthCallbackPayload struct {
	Provider   string         `json:"provider"`
	Attributes map[string]any `json:"attributes"`
}

// registerOAuthRoutes exposes the provisioning entry point the external OAuth
// handshake terminates in. The handshake itself runs upstream; this endpoint
// receives the provider's verified attribute set.
func registerOAuthRoutes[T any](app router.Router[T], provisioner *social.Provisioner) {
	app.Post("/auth/oauth/callback", func(ctx router.Context) error {
		payload := new(oauthCallbackPayload)
		if err := ctx.Bind(payload); err != nil {
			return ctx.JSON(router.StatusBadRequest, map[string]string{
				"error": "malformed payload",
			})
		}

		if payload.Provider == "" {
			return ctx.JSON(router.StatusBadRequest, map[string]string{
				"error": "missing provider",
			})
		}

		session, err := provisioner.OnExternalLoginSuccess(ctx.Context(), payload.Provider, payload.Attributes)
		if err != nil {
			return ctx.JSON(router.StatusUnauthorized, map[string]string{
				"error": "external login rejected",
			})
		}

		return ctx.JSON(router.StatusOK, session)
	}).SetName("auth.oauth-callback")
}

// registerProtectedRoutes mounts demo routes showing role policy on top of
// the request authenticator: any authenticated principal can read its
// profile, only administrators reach the dashboard.
func registerProtectedRoutes[T any](app router.Router[T], contextKey string) {
	profile := func(ctx router.Context) error {
		principal, _ := authgate.GetRouterPrincipal(ctx, contextKey)
		return ctx.JSON(router.StatusOK, map[string]any{
			"account_id":  principal.Account.ID.String(),
			"name":        principal.Account.Name,
			"email":       principal.Account.Email,
			"role":        principal.Account.Role,
			"authorities": principal.Authorities,
		})
	}

	dashboard := func(ctx router.Context) error {
		return ctx.JSON(router.StatusOK, map[string]string{
			"message": "administrator area",
		})
	}

	app.Get("/user/profile", authgate.RequireAuthenticated(contextKey)(profile)).
		SetName("user.profile")

	app.Get("/admin/dashboard", authgate.RequireRole(contextKey, authgate.RoleAdministrator)(dashboard)).
		SetName("admin.dashboard")
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	return <-ch
}
