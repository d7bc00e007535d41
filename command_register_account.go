package authgate

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"
)

type RegisterAccountMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	UseHashid bool
}

func (e RegisterAccountMessage) Type() string { return "account.register" }

// RegisterAccountHandler creates a disabled account plus its verification
// token in one transaction, then attempts the verification email. Delivery
// failure never rolls the registration back.
type RegisterAccountHandler struct {
	repo    RepositoryManager
	mailer  Mailer
	logger  Logger
	baseURL string
}

// NewRegisterAccountHandler creates a handler with sane defaults.
func NewRegisterAccountHandler(repo RepositoryManager, mailer Mailer) *RegisterAccountHandler {
	if mailer == nil {
		mailer = NewLogMailer(nil)
	}
	return &RegisterAccountHandler{
		repo:   repo,
		mailer: mailer,
		logger: defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithBaseURL sets the external base URL embedded in verification links.
func (h *RegisterAccountHandler) WithBaseURL(baseURL string) *RegisterAccountHandler {
	h.baseURL = baseURL
	return h
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, event RegisterAccountMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, event RegisterAccountMessage) error {
	var token *VerificationToken
	account := &Account{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		taken, err := h.repo.Accounts().ExistsTx(ctx, tx, event.Email)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
		}
		if taken {
			return ErrEmailTaken
		}

		hash, err := HashPassword(event.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return goerrors.Wrap(richErr, goerrors.CategoryValidation, "invalid password provided")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Name = event.Name
		account.Email = event.Email
		account.PasswordHash = hash
		account.Enabled = false
		account.Role = AccountRole(event.Role)
		account.EnsureRole()
		if event.UseHashid {
			if id, err := hashid.NewUUID(event.Email); err == nil {
				account.ID = id
			}
		}

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create account")
		}

		token, err = h.repo.VerificationTokens().CreateTx(ctx, tx, &VerificationToken{
			Token:     NewOneShotToken(),
			AccountID: account.ID,
			ExpiresAt: time.Now().Add(VerificationTokenTTL),
		})
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "could not create verification token")
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	h.sendVerificationEmail(ctx, account, token)

	return nil
}

func (h *RegisterAccountHandler) sendVerificationEmail(ctx context.Context, account *Account, token *VerificationToken) {
	body := fmt.Sprintf(
		"Welcome %s!\n\nConfirm your account by following this link:\n%s/auth/verify?token=%s\n\nThe link expires in %s.",
		account.Name,
		h.baseURL,
		token.Token,
		VerificationTokenTTL,
	)

	if err := h.mailer.Send(ctx, account.Email, "Verify your account", body); err != nil {
		// registration already committed; the user can request a resend
		h.logger.Error("failed to send verification email", "email", account.Email, "error", err)
	}
}
