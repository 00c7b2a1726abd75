package bearer

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the account model. Username and email are unique; the password is
// stored as a bcrypt hash and never logged or serialized.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username     string    `bun:"username,notnull,unique" json:"username,omitempty"`
	Email        string    `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string    `bun:"password_hash" json:"-"`

	// A user owns at most one live Token and at most one ResetPasswordToken.
	TokenID              *uuid.UUID          `bun:"token_id,nullzero,type:uuid" json:"-"`
	Token                *Token              `bun:"rel:has-one,join:token_id=id" json:"token,omitempty"`
	ResetPasswordTokenID *uuid.UUID          `bun:"reset_password_token_id,nullzero,type:uuid" json:"-"`
	ResetPasswordToken   *ResetPasswordToken `bun:"rel:has-one,join:reset_password_token_id=id" json:"reset_password_token,omitempty"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// ResourceID implements resource.Resource.
func (u *User) ResourceID() uuid.UUID {
	if u == nil {
		return uuid.Nil
	}
	return u.ID
}

// Token is an opaque bearer credential. The string value is unique across all
// live tokens; TokenDate is the issuance timestamp the TTL check runs against.
type Token struct {
	bun.BaseModel `bun:"table:tokens,alias:tkn"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token     string     `bun:"token,notnull,unique" json:"token,omitempty"`
	TokenDate *time.Time `bun:"token_date,nullzero,default:current_timestamp" json:"token_date,omitempty"`
}

// ResourceID implements resource.Resource.
func (t *Token) ResourceID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.ID
}

// ResetPasswordToken mirrors Token for the password-reset flow. It shares the
// opaque generator but lives in its own table with an independent lifecycle.
type ResetPasswordToken struct {
	bun.BaseModel `bun:"table:reset_password_tokens,alias:rpt"`

	ID        uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Token     string     `bun:"token,notnull,unique" json:"token,omitempty"`
	CreatedAt *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`

	// The owning user carries the FK, so the join runs against
	// users.reset_password_token_id.
	User *User `bun:"rel:has-one,join:id=reset_password_token_id" json:"user,omitempty"`
}

// ResourceID implements resource.Resource.
func (t *ResetPasswordToken) ResourceID() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.ID
}
