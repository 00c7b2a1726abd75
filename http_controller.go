package bearer

import (
	"context"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"

	"github.com/goliatone/go-bearer/resource"
)

// RequestTokenPayload is the credential pair for POST /auth/token.
type RequestTokenPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RequestTokenPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			validation.Length(1, 200),
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// ResetPasswordRequestPayload asks for a reset token by account email.
type ResetPasswordRequestPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ResetPasswordRequestPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

// TokenIssuer is the token lifecycle surface the controller needs.
type TokenIssuer interface {
	CreateToken(ctx context.Context, user *User) (*Token, error)
	DeleteToken(ctx context.Context, id uuid.UUID) (bool, error)
}

// CredentialResolver resolves accounts for the public auth endpoints.
type CredentialResolver interface {
	GetByUsernameAndPassword(ctx context.Context, username, password string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// ResetInitiator starts a password-reset flow for a resolved user.
type ResetInitiator interface {
	CreateResetPasswordTokenForUser(ctx context.Context, user *User) (*User, error)
}

// UserPager serves the paginated user listing.
type UserPager interface {
	FindByPaginated(ctx context.Context, criteria resource.Criteria, data resource.PaginationData) (*resource.PaginatedResources, error)
}

// TokenController owns the auth endpoints. Every handler returns
// (result, error) and the envelope wrapper shapes the response.
type TokenController struct {
	Debug    bool
	Logger   Logger
	Envelope *EnvelopeService

	tokens         TokenIssuer
	users          CredentialResolver
	resets         ResetInitiator
	pages          UserPager
	contextKey     string
	resultsPerPage int
}

func NewTokenController(tokens TokenIssuer, users CredentialResolver, resets ResetInitiator, pages UserPager, envelope *EnvelopeService, cfg Config) *TokenController {
	contextKey := cfg.GetContextKey()
	if contextKey == "" {
		contextKey = "user"
	}

	return &TokenController{
		Logger:         defLogger{},
		Envelope:       envelope,
		tokens:         tokens,
		users:          users,
		resets:         resets,
		pages:          pages,
		contextKey:     contextKey,
		resultsPerPage: cfg.GetResultsPerPage(),
	}
}

func (c *TokenController) WithLogger(l Logger) *TokenController {
	if l != nil {
		c.Logger = l
	}
	return c
}

// RegisterTokenRoutes mounts the auth surface. Refresh, invalidate, and the
// user listing sit behind the bearer middleware.
func RegisterTokenRoutes[T any](app router.Router[T], c *TokenController, protected router.MiddlewareFunc) {
	app.Post("/auth/token", c.Envelope.WrapHandler(c.Token)).
		SetName("auth.token")

	app.Put("/auth/refresh", c.Envelope.WrapHandler(c.Refresh), protected).
		SetName("auth.refresh")

	app.Delete("/auth/invalidate", c.Envelope.WrapHandler(c.Invalidate), protected).
		SetName("auth.invalidate")

	app.Post("/auth/reset-password", c.Envelope.WrapHandler(c.ResetPasswordRequest)).
		SetName("auth.reset-password")

	app.Get("/users", c.Envelope.WrapHandler(c.ListUsers), protected).
		SetName("users.list")
}

// Token exchanges a username/password pair for a fresh bearer token.
func (c *TokenController) Token(ctx router.Context) (any, error) {
	payload := new(RequestTokenPayload)

	if err := ctx.Bind(payload); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed token request").
			WithCode(goerrors.CodeBadRequest)
	}

	return c.issueToken(ctx.Context(), payload)
}

func (c *TokenController) issueToken(ctx context.Context, payload *RequestTokenPayload) (any, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid token request").
			WithCode(goerrors.CodeBadRequest)
	}

	user, err := c.users.GetByUsernameAndPassword(ctx, payload.Username, payload.Password)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "credential lookup failed")
	}

	return c.tokens.CreateToken(ctx, user)
}

// Refresh rotates the caller's token: the old row is deleted and a fresh one
// issued inside the same transaction.
func (c *TokenController) Refresh(ctx router.Context) (any, error) {
	user, ok := CurrentUser(ctx, c.contextKey)
	if !ok {
		return nil, ErrUnauthorized
	}

	return c.refresh(ctx.Context(), user)
}

func (c *TokenController) refresh(ctx context.Context, user *User) (any, error) {
	return c.tokens.CreateToken(ctx, user)
}

// Invalidate deletes the caller's token. Answers true even if the row was
// already gone.
func (c *TokenController) Invalidate(ctx router.Context) (any, error) {
	user, ok := CurrentUser(ctx, c.contextKey)
	if !ok {
		return nil, ErrUnauthorized
	}

	return c.invalidate(ctx.Context(), user)
}

func (c *TokenController) invalidate(ctx context.Context, user *User) (any, error) {
	if user == nil || user.Token == nil {
		return nil, ErrUnauthorized
	}

	return c.tokens.DeleteToken(ctx, user.Token.ID)
}

// ResetPasswordRequest issues a reset token for the account behind the given
// email. The response is true either way so the endpoint does not disclose
// which emails exist.
func (c *TokenController) ResetPasswordRequest(ctx router.Context) (any, error) {
	payload := new(ResetPasswordRequestPayload)

	if err := ctx.Bind(payload); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed reset request").
			WithCode(goerrors.CodeBadRequest)
	}

	return c.requestReset(ctx.Context(), payload)
}

func (c *TokenController) requestReset(ctx context.Context, payload *ResetPasswordRequestPayload) (any, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid reset request").
			WithCode(goerrors.CodeBadRequest)
	}

	if c.Debug {
		c.Logger.Debug("password reset requested: %s", print.MaybePrettyJSON(payload))
	}

	user, err := c.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return true, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account lookup failed")
	}

	if _, err := c.resets.CreateResetPasswordTokenForUser(ctx, user); err != nil {
		return nil, err
	}

	return true, nil
}

// ListUsers answers one page of users through the collection envelope path.
func (c *TokenController) ListUsers(ctx router.Context) (any, error) {
	page, err := strconv.Atoi(ctx.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	return c.listUsers(ctx.Context(), page)
}

func (c *TokenController) listUsers(ctx context.Context, page int) (any, error) {
	limit := c.resultsPerPage
	if limit <= 0 {
		limit = 50
	}

	return c.pages.FindByPaginated(ctx, nil, resource.PaginationData{
		Order:  "usr.created_at DESC",
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
}
