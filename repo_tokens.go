package authgate

import (
	"context"
	"database/sql"
	"errors"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VerificationTokens is the store contract for email verification tokens.
type VerificationTokens interface {
	Get(ctx context.Context, token string) (*VerificationToken, error)
	GetTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error)
	Create(ctx context.Context, record *VerificationToken) (*VerificationToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *VerificationToken) (*VerificationToken, error)
	Delete(ctx context.Context, token string) error
	DeleteTx(ctx context.Context, tx bun.IDB, token string) error
}

// PasswordResetTokens is the store contract for password reset tokens.
type PasswordResetTokens interface {
	Get(ctx context.Context, token string) (*PasswordResetToken, error)
	GetTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error)
	Create(ctx context.Context, record *PasswordResetToken) (*PasswordResetToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *PasswordResetToken) (*PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
	DeleteTx(ctx context.Context, tx bun.IDB, token string) error
}

type verificationTokens struct {
	db *bun.DB
}

var _ VerificationTokens = (*verificationTokens)(nil)

func NewVerificationTokensRepository(db *bun.DB) VerificationTokens {
	return &verificationTokens{db: db}
}

func (r *verificationTokens) Get(ctx context.Context, token string) (*VerificationToken, error) {
	return r.GetTx(ctx, r.db, token)
}

func (r *verificationTokens) GetTx(ctx context.Context, tx bun.IDB, token string) (*VerificationToken, error) {
	record := &VerificationToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token": token})
		}
		return nil, err
	}
	return record, nil
}

func (r *verificationTokens) Create(ctx context.Context, record *VerificationToken) (*VerificationToken, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *verificationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *VerificationToken) (*VerificationToken, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *verificationTokens) Delete(ctx context.Context, token string) error {
	return r.DeleteTx(ctx, r.db, token)
}

// DeleteTx removes the token row. It reports not-found when no row was
// deleted, which is what makes consumption one-shot: of two concurrent
// consumers, exactly one sees the delete succeed.
func (r *verificationTokens) DeleteTx(ctx context.Context, tx bun.IDB, token string) error {
	res, err := tx.NewDelete().
		Model((*VerificationToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"token": token})
	}
	return nil
}

type passwordResetTokens struct {
	db *bun.DB
}

var _ PasswordResetTokens = (*passwordResetTokens)(nil)

func NewPasswordResetTokensRepository(db *bun.DB) PasswordResetTokens {
	return &passwordResetTokens{db: db}
}

func (r *passwordResetTokens) Get(ctx context.Context, token string) (*PasswordResetToken, error) {
	return r.GetTx(ctx, r.db, token)
}

func (r *passwordResetTokens) GetTx(ctx context.Context, tx bun.IDB, token string) (*PasswordResetToken, error) {
	record := &PasswordResetToken{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token": token})
		}
		return nil, err
	}
	return record, nil
}

func (r *passwordResetTokens) Create(ctx context.Context, record *PasswordResetToken) (*PasswordResetToken, error) {
	return r.CreateTx(ctx, r.db, record)
}

func (r *passwordResetTokens) CreateTx(ctx context.Context, tx bun.IDB, record *PasswordResetToken) (*PasswordResetToken, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r *passwordResetTokens) Delete(ctx context.Context, token string) error {
	return r.DeleteTx(ctx, r.db, token)
}

func (r *passwordResetTokens) DeleteTx(ctx context.Context, tx bun.IDB, token string) error {
	res, err := tx.NewDelete().
		Model((*PasswordResetToken)(nil)).
		Where("?TableAlias.token = ?", token).
		Exec(ctx)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"token": token})
	}
	return nil
}
