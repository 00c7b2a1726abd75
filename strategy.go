package bearer

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
)

// ErrMissingToken is returned when the request carries no extractable
// credential.
var ErrMissingToken = goerrors.New("missing or malformed bearer token", goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthorized).
	WithCode(goerrors.CodeUnauthorized)

// TokenResolver resolves an opaque token string to its stored row.
// *TokenService satisfies it.
type TokenResolver interface {
	GetToken(ctx context.Context, tokenString string) (*Token, error)
}

// UserResolver answers the user owning a token. Users satisfies it.
type UserResolver interface {
	GetByToken(ctx context.Context, token *Token) (*User, error)
}

// BearerStrategy validates inbound bearer credentials: store lookup, TTL
// check, owner resolution. It has no side effects beyond the lookups.
type BearerStrategy struct {
	tokens TokenResolver
	users  UserResolver
	ttl    time.Duration
	logger Logger
}

// NewBearerStrategy wires the strategy. The TTL comes from the config in
// milliseconds.
func NewBearerStrategy(tokens TokenResolver, users UserResolver, cfg Config) *BearerStrategy {
	return &BearerStrategy{
		tokens: tokens,
		users:  users,
		ttl:    time.Duration(cfg.GetTokenTTL()) * time.Millisecond,
		logger: defLogger{},
	}
}

func (s *BearerStrategy) WithLogger(l Logger) *BearerStrategy {
	if l != nil {
		s.logger = l
	}
	return s
}

// Validate runs the per-request state machine. Terminal rejections are
// ErrUnauthorized (unknown token, dangling token) and ErrTokenExpired; any
// accepted request answers the owning user with its Token relation loaded.
func (s *BearerStrategy) Validate(ctx context.Context, tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	token, err := s.tokens.GetToken(ctx, tokenString)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "token lookup failed")
	}

	issuedAt := time.Time{}
	if token.TokenDate != nil {
		issuedAt = *token.TokenDate
	}

	if issuedAt.Add(s.ttl).Before(time.Now()) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.GetByToken(ctx, token)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			// Token row exists but no user references it. Surfaced as a plain
			// auth rejection, not an integrity fault.
			s.logger.Info("rejected dangling token %s", token.ID)
			return nil, ErrUnauthorized
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "token owner lookup failed")
	}

	user.Token = token

	return user, nil
}

// ProtectedRoute builds the middleware guarding authenticated routes. The
// resolved user lands in the router locals under cfg's context key and in the
// request context for downstream service calls.
func (s *BearerStrategy) ProtectedRoute(cfg Config, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	extractors := buildExtractors(cfg.GetTokenLookup(), cfg.GetAuthScheme())

	contextKey := cfg.GetContextKey()
	if contextKey == "" {
		contextKey = "user"
	}

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw, err := extractRawToken(ctx, extractors)
			if err != nil {
				return errorHandler(ctx, err)
			}

			user, err := s.Validate(ctx.Context(), raw)
			if err != nil {
				return errorHandler(ctx, err)
			}

			ctx.Locals(contextKey, user)
			ctx.SetContext(WithContext(ctx.Context(), user))

			return next(ctx)
		}
	}
}

type tokenExtractor func(router.Context) (string, error)

func extractRawToken(ctx router.Context, extractors []tokenExtractor) (string, error) {
	var raw string
	var err error

	for _, extractor := range extractors {
		raw, err = extractor(ctx)
		if raw != "" && err == nil {
			return raw, nil
		}
	}

	if err == nil {
		err = ErrMissingToken
	}

	return "", err
}

// buildExtractors parses a lookup spec such as
// "header:Authorization,query:token,cookie:token" into extractor functions.
// Each source reads its own request surface; the context store is never
// consulted, it does not carry inbound request data.
func buildExtractors(tokenLookup, authScheme string) []tokenExtractor {
	if tokenLookup == "" {
		tokenLookup = "header:" + router.HeaderAuthorization
	}
	if authScheme == "" {
		authScheme = "Bearer"
	}

	var extractors []tokenExtractor

	for _, source := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(source), ":", 2)
		if len(parts) != 2 {
			continue
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

func tokenFromHeader(header, authScheme string) tokenExtractor {
	return func(c router.Context) (string, error) {
		value := c.Header(header)
		l := len(authScheme)

		if len(value) > l+1 && strings.EqualFold(value[:l], authScheme) {
			return strings.TrimSpace(value[l+1:]), nil
		}

		return "", ErrMissingToken
	}
}

func tokenFromQuery(name string) tokenExtractor {
	return func(c router.Context) (string, error) {
		if value := c.Query(name, ""); value != "" {
			return value, nil
		}
		return "", ErrMissingToken
	}
}

func tokenFromParam(name string) tokenExtractor {
	return func(c router.Context) (string, error) {
		if value := c.Param(name); value != "" {
			return value, nil
		}
		return "", ErrMissingToken
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c router.Context) (string, error) {
		if value := c.Cookies(name); value != "" {
			return value, nil
		}
		return "", ErrMissingToken
	}
}
