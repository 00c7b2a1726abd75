package bearer

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds = "invalid_credentials"
	TextCodeUnauthorized = "unauthorized"
	TextCodeTokenExpired = "token_expired"
	TextCodeNotFound     = "not_found"
)

// ErrInvalidCredentials is returned when a username/password pair does not
// match any account.
var ErrInvalidCredentials = errors.New("invalid username and/or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthorized is returned for missing or unknown bearer tokens, and for
// tokens no user references anymore.
var ErrUnauthorized = errors.New("unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when a token's age exceeds the configured TTL.
// Same status class as ErrUnauthorized, distinct message.
var ErrTokenExpired = errors.New("token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure.
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString guards the hashing helpers.
var ErrNoEmptyString = errors.New("password should not be an empty string", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)
