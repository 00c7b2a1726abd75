package bearer

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ResetTokenStore is the persistence surface the reset service needs.
type ResetTokenStore interface {
	GetByString(ctx context.Context, token string) (*ResetPasswordToken, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *ResetPasswordToken, criteria ...repository.InsertCriteria) (*ResetPasswordToken, error)
}

// ResetPasswordService runs the password-reset token lifecycle. Token strings
// come from the same generator as authentication tokens; the rows live in
// their own table.
type ResetPasswordService struct {
	tx     repository.TransactionManager
	resets ResetTokenStore
	users  UserUpdater
	logger Logger
}

func NewResetPasswordService(tx repository.TransactionManager, resets ResetTokenStore, users UserUpdater) *ResetPasswordService {
	return &ResetPasswordService{
		tx:     tx,
		resets: resets,
		users:  users,
		logger: defLogger{},
	}
}

func (s *ResetPasswordService) WithLogger(l Logger) *ResetPasswordService {
	if l != nil {
		s.logger = l
	}
	return s
}

// CreateResetPasswordToken persists a reset token with a fresh opaque value.
func (s *ResetPasswordService) CreateResetPasswordToken(ctx context.Context) (*ResetPasswordToken, error) {
	var token *ResetPasswordToken

	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		token, err = s.createResetPasswordTokenTx(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// CreateResetPasswordTokenForUser attaches a freshly created reset token to
// the user and persists the association. A previous reset token is overwritten
// on the user side rather than deleted; its row simply stops being referenced.
func (s *ResetPasswordService) CreateResetPasswordTokenForUser(ctx context.Context, user *User) (*User, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, goerrors.New("a persisted user is required for a password reset", goerrors.CategoryBadInput)
	}

	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		token, err := s.createResetPasswordTokenTx(ctx, tx)
		if err != nil {
			return err
		}

		user.ResetPasswordToken = token
		user.ResetPasswordTokenID = &token.ID

		if _, err := s.users.UpdateTx(ctx, tx, user, repository.UpdateByID(user.ID.String())); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to associate reset token with user")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("issued reset token for user %s", user.ID)

	return user, nil
}

// FindByResetPasswordToken resolves a reset token row together with its
// owning user. Absence is reported as a record-not-found error.
func (s *ResetPasswordService) FindByResetPasswordToken(ctx context.Context, tokenString string) (*ResetPasswordToken, error) {
	return s.resets.GetByString(ctx, tokenString)
}

func (s *ResetPasswordService) createResetPasswordTokenTx(ctx context.Context, tx bun.Tx) (*ResetPasswordToken, error) {
	now := time.Now()
	token := &ResetPasswordToken{
		ID:        uuid.New(),
		Token:     GenerateUniqueToken(),
		CreatedAt: &now,
	}

	created, err := s.resets.CreateTx(ctx, tx, token)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist reset token")
	}

	return created, nil
}
