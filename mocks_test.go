package bearer_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-bearer"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockTransactionManager implements repository.TransactionManager. When the
// canned return is nil the callback runs with a zero bun.Tx, so service
// logic inside the transaction is exercised for real.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	args := m.Called(ctx, opts, f)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return f(ctx, bun.Tx{})
}

// MockTokenStore implements bearer.TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) GetByString(ctx context.Context, token string) (*bearer.Token, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bearer.Token), args.Error(1)
}

func (m *MockTokenStore) CreateTx(ctx context.Context, tx bun.IDB, record *bearer.Token, criteria ...repository.InsertCriteria) (*bearer.Token, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return record, nil
	}
	return args.Get(0).(*bearer.Token), args.Error(1)
}

func (m *MockTokenStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTokenStore) DeleteByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

// MockUserUpdater implements bearer.UserUpdater
type MockUserUpdater struct {
	mock.Mock
}

func (m *MockUserUpdater) UpdateTx(ctx context.Context, tx bun.IDB, record *bearer.User, criteria ...repository.UpdateCriteria) (*bearer.User, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return record, nil
	}
	return args.Get(0).(*bearer.User), args.Error(1)
}

// MockTokenResolver implements bearer.TokenResolver
type MockTokenResolver struct {
	mock.Mock
}

func (m *MockTokenResolver) GetToken(ctx context.Context, tokenString string) (*bearer.Token, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bearer.Token), args.Error(1)
}

// MockUserResolver implements bearer.UserResolver
type MockUserResolver struct {
	mock.Mock
}

func (m *MockUserResolver) GetByToken(ctx context.Context, token *bearer.Token) (*bearer.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bearer.User), args.Error(1)
}

// MockResetTokenStore implements bearer.ResetTokenStore
type MockResetTokenStore struct {
	mock.Mock
}

func (m *MockResetTokenStore) GetByString(ctx context.Context, token string) (*bearer.ResetPasswordToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bearer.ResetPasswordToken), args.Error(1)
}

func (m *MockResetTokenStore) CreateTx(ctx context.Context, tx bun.IDB, record *bearer.ResetPasswordToken, criteria ...repository.InsertCriteria) (*bearer.ResetPasswordToken, error) {
	args := m.Called(ctx, tx, record)
	if args.Get(0) == nil {
		if args.Error(1) != nil {
			return nil, args.Error(1)
		}
		return record, nil
	}
	return args.Get(0).(*bearer.ResetPasswordToken), args.Error(1)
}

// testConfig implements bearer.Config with static values.
type testConfig struct {
	ttl         int
	lookup      string
	scheme      string
	contextKey  string
	perPage     int
	environment string
}

func (c testConfig) GetTokenTTL() int {
	if c.ttl == 0 {
		return int(time.Hour.Milliseconds())
	}
	return c.ttl
}

func (c testConfig) GetTokenLookup() string {
	if c.lookup == "" {
		return "header:Authorization"
	}
	return c.lookup
}

func (c testConfig) GetAuthScheme() string {
	if c.scheme == "" {
		return "Bearer"
	}
	return c.scheme
}

func (c testConfig) GetContextKey() string {
	if c.contextKey == "" {
		return "user"
	}
	return c.contextKey
}

func (c testConfig) GetResultsPerPage() int {
	if c.perPage == 0 {
		return 25
	}
	return c.perPage
}

func (c testConfig) GetEnvironment() string {
	if c.environment == "" {
		return "production"
	}
	return c.environment
}

func createDummyUser() *bearer.User {
	now := time.Now()
	return &bearer.User{
		ID:        uuid.New(),
		Username:  "test_user",
		Email:     "test@example.com",
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

// MockContext mocks the router.Context
type MockContext struct {
	mock.Mock
	NextCalled bool
}

func (m *MockContext) Next() error {
	m.NextCalled = true
	return nil
}

func (m *MockContext) Context() context.Context {
	args := m.Called()
	c, ok := args.Get(0).(context.Context)
	if !ok {
		panic("arg needs to be context.Context")
	}
	return c
}

func (m *MockContext) SetContext(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockContext) Path() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Method() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) Body() []byte {
	args := m.Called()
	return args.Get(0).([]byte)
}

func (m *MockContext) Status(code int) router.Context {
	m.Called(code)
	return m
}

func (m *MockContext) SendString(s string) error {
	args := m.Called(s)
	return args.Error(0)
}

func (m *MockContext) Send(b []byte) error {
	args := m.Called(b)
	return args.Error(0)
}

func (m *MockContext) JSON(code int, val any) error {
	args := m.Called(code, val)
	return args.Error(0)
}

func (m *MockContext) NoContent(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) Render(name string, bind any, layout ...string) error {
	if len(layout) > 0 {
		args := m.Called(name, bind, layout[0])
		return args.Error(0)
	}
	args := m.Called(name, bind)
	return args.Error(0)
}

func (m *MockContext) Redirect(path string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(path, status)
		return args.Error(0)
	}
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	if len(status) > 0 {
		args := m.Called(name, data, status[0])
		return args.Error(0)
	}
	args := m.Called(name, data)
	return args.Error(0)
}

func (m *MockContext) RedirectBack(fallback string, status ...int) error {
	if len(status) > 0 {
		args := m.Called(fallback, status)
		return args.Error(0)
	}
	args := m.Called(fallback)
	return args.Error(0)
}

func (m *MockContext) SetHeader(key, val string) router.Context {
	m.Called(key, val)
	return m
}

func (m *MockContext) Header(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Get(key string, defaultValue any) any {
	args := m.Called(key, defaultValue)
	return args.Get(0)
}

func (m *MockContext) GetBool(key string, defaultValue bool) bool {
	args := m.Called(key, defaultValue)
	return args.Bool(0)
}

func (m *MockContext) GetInt(key string, def int) int {
	args := m.Called(key, def)
	return args.Int(0)
}

func (m *MockContext) Set(key string, val any) {
	m.Called(key, val)
}

func (m *MockContext) Bind(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindJSON(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindXML(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) BindQuery(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) CookieParser(i any) error {
	args := m.Called(i)
	return args.Error(0)
}

func (m *MockContext) Cookie(cookie *router.Cookie) {
	m.Called(cookie)
}

func (m *MockContext) Cookies(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) ParamsInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Query(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) QueryInt(key string, defaultValue int) int {
	args := m.Called(key, defaultValue)
	return args.Int(0)
}

func (m *MockContext) Queries() map[string]string {
	args := m.Called()
	return args.Get(0).(map[string]string)
}

func (m *MockContext) GetString(key string, defaultValue string) string {
	args := m.Called(key, defaultValue)
	return args.String(0)
}

func (m *MockContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		m.Called(key, value[0])
		return nil
	}
	args := m.Called(key)
	return args.Get(0)
}

func (m *MockContext) OriginalURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) OnNext(callback func() error) {
	m.Called(callback)
}

func (m *MockContext) Referer() string {
	args := m.Called()
	return args.String(0)
}
