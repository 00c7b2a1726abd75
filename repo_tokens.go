package bearer

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tokens persists opaque bearer tokens.
type Tokens interface {
	repository.Repository[*Token]

	// GetByString is an exact-match lookup on the opaque token value.
	GetByString(ctx context.Context, token string) (*Token, error)
	// DeleteByID removes a token row. Deleting an absent id is not an error.
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var _ Tokens = (*tokens)(nil)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (a *tokens) GetByString(ctx context.Context, token string) (*Token, error) {
	record := &Token{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}

func (a *tokens) DeleteByID(ctx context.Context, id uuid.UUID) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *tokens) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model((*Token)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

// ResetPasswordTokens persists password-reset tokens.
type ResetPasswordTokens interface {
	repository.Repository[*ResetPasswordToken]

	// GetByString resolves a reset token together with its owning user.
	GetByString(ctx context.Context, token string) (*ResetPasswordToken, error)
}

type resetPasswordTokens struct {
	repository.Repository[*ResetPasswordToken]
	db *bun.DB
}

var _ ResetPasswordTokens = (*resetPasswordTokens)(nil)

func NewResetPasswordTokensRepository(db *bun.DB) ResetPasswordTokens {
	repo := repository.NewRepository[*ResetPasswordToken](db, repository.ModelHandlers[*ResetPasswordToken]{
		NewRecord: func() *ResetPasswordToken { return &ResetPasswordToken{} },
		GetID: func(t *ResetPasswordToken) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *ResetPasswordToken, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &resetPasswordTokens{
		Repository: repo,
		db:         db,
	}
}

func (a *resetPasswordTokens) GetByString(ctx context.Context, token string) (*ResetPasswordToken, error) {
	record := &ResetPasswordToken{}
	err := a.db.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.token = ?", token).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound()
		}
		return nil, err
	}

	return record, nil
}
