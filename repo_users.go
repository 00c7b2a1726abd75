package bearer

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the user repository. Lookups report absence with a record-not-found
// error rather than an auth failure; callers decide what absence means.
type Users interface {
	repository.Repository[*User]

	// GetByUsernameAndPassword resolves the credential pair. The password
	// comparison is delegated to the bcrypt collaborator; a wrong password is
	// reported the same way as an unknown username.
	GetByUsernameAndPassword(ctx context.Context, username, password string) (*User, error)
	// GetByToken answers the user whose token relation matches the given
	// token's id, with the relation loaded.
	GetByToken(ctx context.Context, token *Token) (*User, error)
	GetByTokenTx(ctx context.Context, tx bun.IDB, token *Token) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "username"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByUsernameAndPassword(ctx context.Context, username, password string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.username = ?", strings.TrimSpace(username)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"username": username})
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, record.PasswordHash); err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{"username": username})
	}

	return record, nil
}

func (a *users) GetByToken(ctx context.Context, token *Token) (*User, error) {
	return a.GetByTokenTx(ctx, a.db, token)
}

func (a *users) GetByTokenTx(ctx context.Context, tx bun.IDB, token *Token) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Token").
		Where("?TableAlias.token_id = ?", token.ID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"token_id": token.ID.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"email": email})
		}
		return nil, err
	}

	return record, nil
}
