package authgate

import (
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// AuthControllerRoutes holds the route paths for the JSON auth API.
type AuthControllerRoutes struct {
	Register       string
	Login          string
	Verify         string
	PasswordForgot string
	PasswordReset  string
}

// AuthController exposes the account lifecycle over HTTP:
// register, login, verify, forgot and reset password.
type AuthController struct {
	Debug         bool
	Logger        Logger
	Auther        Authenticator
	Register      *RegisterAccountHandler
	Verify        *VerifyEmailHandler
	ResetInit     *InitializePasswordResetHandler
	ResetFinalize *FinalizePasswordResetHandler
	Routes        *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:       "/auth/register",
			Login:          "/auth/login",
			Verify:         "/auth/verify",
			PasswordForgot: "/auth/password/forgot",
			PasswordReset:  "/auth/password/reset",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Register == nil || c.Verify == nil || c.ResetInit == nil || c.ResetFinalize == nil {
		panic("Missing lifecycle handlers in auth controller...")
	}

	return c
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithLifecycleHandlers(
	register *RegisterAccountHandler,
	verify *VerifyEmailHandler,
	resetInit *InitializePasswordResetHandler,
	resetFinalize *FinalizePasswordResetHandler,
) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = register
		c.Verify = verify
		c.ResetInit = resetInit
		c.ResetFinalize = resetFinalize
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// RegisterAuthRoutes mounts the auth API on the given router.
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("auth.register")

	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("auth.login")

	app.Get(controller.Routes.Verify, controller.VerifyGet).
		SetName("auth.verify")

	app.Post(controller.Routes.PasswordForgot, controller.PasswordForgotPost).
		SetName("auth.password-forgot")

	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("auth.password-reset")

	return controller
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.respondError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": err,
		})
	}

	if a.Debug {
		a.Logger.Debug("register payload: %s", print.MaybePrettyJSON(map[string]any{
			"name":  payload.Name,
			"email": payload.Email,
		}))
	}

	err := a.Register.Execute(ctx.Context(), RegisterAccountMessage{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Account registered successfully. Check your email to verify your account.",
	})
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.respondError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": err,
		})
	}

	session, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, session)
}

func (a *AuthController) VerifyGet(ctx router.Context) error {
	token := ctx.Query("token", "")
	if token == "" {
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "missing token",
		})
	}

	var resp *VerifyEmailResponse
	err := a.Verify.Execute(ctx.Context(), VerifyEmailMessage{
		Token: token,
		OnResponse: func(r *VerifyEmailResponse) {
			resp = r
		},
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": resp.Message,
	})
}

func (a *AuthController) PasswordForgotPost(ctx router.Context) error {
	payload := new(ForgotPasswordRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.respondError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": err,
		})
	}

	err := a.ResetInit.Execute(ctx.Context(), InitializePasswordResetMessage{
		Email: payload.Email,
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Password reset email sent.",
	})
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(ResetPasswordRequest)

	if err := ctx.Bind(payload); err != nil {
		return a.respondError(ctx, err)
	}

	if err := payload.Validate(); err != nil {
		return ctx.JSON(router.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": err,
		})
	}

	err := a.ResetFinalize.Execute(ctx.Context(), FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	})
	if err != nil {
		return a.respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": "Password updated successfully.",
	})
}

func (a *AuthController) respondError(ctx router.Context, err error) error {
	var richErr *errors.Error
	if errors.As(err, &richErr) && richErr.Code > 0 {
		a.Logger.Info(
			"auth controller error",
			"error", richErr.Message,
			"text_code", richErr.TextCode,
			"path", ctx.Path(),
		)
		return ctx.JSON(richErr.Code, map[string]string{
			"error": richErr.Message,
			"code":  richErr.TextCode,
		})
	}

	a.Logger.Error("auth controller unexpected error", "error", err, "path", ctx.Path())
	return ctx.JSON(router.StatusInternalServerError, map[string]string{
		"error": "unexpected server error",
	})
}
