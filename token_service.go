package bearer

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// TokenStore is the persistence surface the token service needs.
type TokenStore interface {
	GetByString(ctx context.Context, token string) (*Token, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Token, criteria ...repository.InsertCriteria) (*Token, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

// UserUpdater persists the user side of a token association.
type UserUpdater interface {
	UpdateTx(ctx context.Context, tx bun.IDB, record *User, criteria ...repository.UpdateCriteria) (*User, error)
}

// TokenService owns the opaque token lifecycle.
type TokenService struct {
	tx     repository.TransactionManager
	tokens TokenStore
	users  UserUpdater
	logger Logger
}

// NewTokenService creates a TokenService. The three collaborators are usually
// a RepositoryManager and its repositories, passed explicitly.
func NewTokenService(tx repository.TransactionManager, tokens TokenStore, users UserUpdater) *TokenService {
	return &TokenService{
		tx:     tx,
		tokens: tokens,
		users:  users,
		logger: defLogger{},
	}
}

func (s *TokenService) WithLogger(l Logger) *TokenService {
	if l != nil {
		s.logger = l
	}
	return s
}

// GenerateUniqueToken produces an opaque credential string: the hex form of a
// random uuid concatenated with an independently generated random hex string
// of matching length. Storage uniqueness constraints back the negligible
// collision probability.
func GenerateUniqueToken() string {
	unique := strings.ReplaceAll(uuid.New().String(), "-", "")

	buf := make([]byte, len(unique)/2)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the kernel CSPRNG is unavailable;
		// a second uuid keeps the shape and entropy class of the credential.
		return unique + strings.ReplaceAll(uuid.New().String(), "-", "")
	}

	return unique + hex.EncodeToString(buf)
}

// CreateToken issues a fresh token for the user. If the user already owns a
// token it is deleted first, enforcing at-most-one-live-token. The delete,
// the insert, and the user-side association update run in one transaction so
// concurrent calls for the same user cannot interleave.
func (s *TokenService) CreateToken(ctx context.Context, user *User) (*Token, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, goerrors.New("a persisted user is required to issue a token", goerrors.CategoryBadInput)
	}

	now := time.Now()
	token := &Token{
		ID:        uuid.New(),
		Token:     GenerateUniqueToken(),
		TokenDate: &now,
	}

	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if user.TokenID != nil {
			if err := s.tokens.DeleteByIDTx(ctx, tx, *user.TokenID); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete previous token")
			}
		}

		created, err := s.tokens.CreateTx(ctx, tx, token)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist token")
		}
		token = created

		user.Token = token
		user.TokenID = &token.ID
		if _, err := s.users.UpdateTx(ctx, tx, user, repository.UpdateByID(user.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to associate token with user")
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Debug("issued token for user %s", user.ID)

	return token, nil
}

// GetToken is an exact-match lookup by the opaque token string. Absence is
// reported as a record-not-found error.
func (s *TokenService) GetToken(ctx context.Context, tokenString string) (*Token, error) {
	return s.tokens.GetByString(ctx, tokenString)
}

// DeleteToken removes a token row by id. It answers true whenever the store
// accepted the delete; the id not existing anymore is not an error.
func (s *TokenService) DeleteToken(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.tokens.DeleteByID(ctx, id); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to delete token")
	}
	return true, nil
}
