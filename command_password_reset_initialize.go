package authgate

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(*InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "account.password_reset" }

type InitializePasswordResetResponse struct {
	Reset *PasswordResetToken
}

// InitializePasswordResetHandler creates a short-lived reset token and mails
// the reset link. Earlier tokens for the same account are deliberately left
// valid; the store holds every unexpired request.
type InitializePasswordResetHandler struct {
	repo    RepositoryManager
	mailer  Mailer
	logger  Logger
	baseURL string
}

// NewInitializePasswordResetHandler creates a handler with sane defaults.
func NewInitializePasswordResetHandler(repo RepositoryManager, mailer Mailer) *InitializePasswordResetHandler {
	if mailer == nil {
		mailer = NewLogMailer(nil)
	}
	return &InitializePasswordResetHandler{
		repo:   repo,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithBaseURL sets the external base URL embedded in reset links.
func (h *InitializePasswordResetHandler) WithBaseURL(baseURL string) *InitializePasswordResetHandler {
	h.baseURL = baseURL
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	resp := &InitializePasswordResetResponse{}
	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		account, err = h.repo.Accounts().GetByEmailTx(ctx, tx, event.Email)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return ErrAccountNotFound
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve account for password reset")
		}

		reset, err := h.repo.PasswordResetTokens().CreateTx(ctx, tx, &PasswordResetToken{
			Token:     NewOneShotToken(),
			AccountID: account.ID,
			ExpiresAt: time.Now().Add(PasswordResetTokenTTL),
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create password reset token")
		}

		resp.Reset = reset
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to initialize password reset")
	}

	h.sendResetEmail(ctx, account, resp.Reset)

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}

func (h *InitializePasswordResetHandler) sendResetEmail(ctx context.Context, account *Account, reset *PasswordResetToken) {
	body := fmt.Sprintf(
		"Hello %s,\n\nReset your password by following this link:\n%s/auth/password/reset?token=%s\n\nThe link expires in %s. If you did not request this, ignore this email.",
		account.Name,
		h.baseURL,
		reset.Token,
		PasswordResetTokenTTL,
	)

	if err := h.mailer.Send(ctx, account.Email, "Reset your password", body); err != nil {
		// token already committed; the user can request another reset
		h.logger.Error("failed to send password reset email", "email", account.Email, "error", err)
	}
}
