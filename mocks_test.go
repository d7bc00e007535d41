package authgate_test

import (
	"context"
	"database/sql"
	"io"
	"mime/multipart"

	"github.com/goliatone/go-router"
	"github.com/google/uuid"
	"github.com/halcyonsoft/authgate"
	"github.com/stretchr/testify/mock"
	"github.com/uptrace/bun"
)

// MockLogger implements authgate.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// noopLogger swallows everything; used where log output is irrelevant
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MockConfig implements authgate.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetSigningMethod() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetContextKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetAuthScheme() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]string)
	}
	return nil
}

// MockAccounts implements authgate.Accounts
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetByEmail(ctx context.Context, email string) (*authgate.Account, error) {
	args := m.Called(ctx, email)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*authgate.Account, error) {
	args := m.Called(ctx, tx, email)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) ExistsTx(ctx context.Context, tx bun.IDB, email string) (bool, error) {
	args := m.Called(ctx, tx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccounts) Create(ctx context.Context, record *authgate.Account) (*authgate.Account, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) CreateTx(ctx context.Context, tx bun.IDB, record *authgate.Account) (*authgate.Account, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) GetOrCreate(ctx context.Context, record *authgate.Account) (*authgate.Account, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) GetOrCreateTx(ctx context.Context, tx bun.IDB, record *authgate.Account) (*authgate.Account, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.Account), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccounts) Activate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccounts) ActivateTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	args := m.Called(ctx, tx, id)
	return args.Error(0)
}

func (m *MockAccounts) ResetPassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccounts) ResetPasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, tx, id, passwordHash)
	return args.Error(0)
}

// MockVerificationTokens implements authgate.VerificationTokens
type MockVerificationTokens struct {
	mock.Mock
}

func (m *MockVerificationTokens) Get(ctx context.Context, token string) (*authgate.VerificationToken, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*authgate.VerificationToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationTokens) GetTx(ctx context.Context, tx bun.IDB, token string) (*authgate.VerificationToken, error) {
	args := m.Called(ctx, tx, token)
	if v := args.Get(0); v != nil {
		return v.(*authgate.VerificationToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationTokens) Create(ctx context.Context, record *authgate.VerificationToken) (*authgate.VerificationToken, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.VerificationToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationTokens) CreateTx(ctx context.Context, tx bun.IDB, record *authgate.VerificationToken) (*authgate.VerificationToken, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.VerificationToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockVerificationTokens) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockVerificationTokens) DeleteTx(ctx context.Context, tx bun.IDB, token string) error {
	args := m.Called(ctx, tx, token)
	return args.Error(0)
}

// MockPasswordResetTokens implements authgate.PasswordResetTokens
type MockPasswordResetTokens struct {
	mock.Mock
}

func (m *MockPasswordResetTokens) Get(ctx context.Context, token string) (*authgate.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	if v := args.Get(0); v != nil {
		return v.(*authgate.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResetTokens) GetTx(ctx context.Context, tx bun.IDB, token string) (*authgate.PasswordResetToken, error) {
	args := m.Called(ctx, tx, token)
	if v := args.Get(0); v != nil {
		return v.(*authgate.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResetTokens) Create(ctx context.Context, record *authgate.PasswordResetToken) (*authgate.PasswordResetToken, error) {
	args := m.Called(ctx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResetTokens) CreateTx(ctx context.Context, tx bun.IDB, record *authgate.PasswordResetToken) (*authgate.PasswordResetToken, error) {
	args := m.Called(ctx, tx, record)
	if v := args.Get(0); v != nil {
		return v.(*authgate.PasswordResetToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPasswordResetTokens) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockPasswordResetTokens) DeleteTx(ctx context.Context, tx bun.IDB, token string) error {
	args := m.Called(ctx, tx, token)
	return args.Error(0)
}

// MockRepositoryManager implements authgate.RepositoryManager. RunInTx
// executes the callback inline with a zero-value transaction so tests
// exercise the real handler logic against the store mocks.
type MockRepositoryManager struct {
	accounts            *MockAccounts
	verificationTokens  *MockVerificationTokens
	passwordResetTokens *MockPasswordResetTokens
}

func NewMockRepositoryManager() *MockRepositoryManager {
	return &MockRepositoryManager{
		accounts:            new(MockAccounts),
		verificationTokens:  new(MockVerificationTokens),
		passwordResetTokens: new(MockPasswordResetTokens),
	}
}

func (m *MockRepositoryManager) Validate() error {
	return nil
}

func (m *MockRepositoryManager) MustValidate() {}

func (m *MockRepositoryManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *MockRepositoryManager) Accounts() authgate.Accounts {
	return m.accounts
}

func (m *MockRepositoryManager) VerificationTokens() authgate.VerificationTokens {
	return m.verificationTokens
}

func (m *MockRepositoryManager) PasswordResetTokens() authgate.PasswordResetTokens {
	return m.passwordResetTokens
}

func (m *MockRepositoryManager) AssertExpectations(t mock.TestingT) {
	m.accounts.AssertExpectations(t)
	m.verificationTokens.AssertExpectations(t)
	m.passwordResetTokens.AssertExpectations(t)
}

// MockAuthenticator implements authgate.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*authgate.IssuedSession, error) {
	args := m.Called(ctx, email, password)
	if v := args.Get(0); v != nil {
		return v.(*authgate.IssuedSession), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockMailer implements authgate.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockTokenValidator implements authgate.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(tokenString string) (authgate.AuthClaims, error) {
	args := m.Called(tokenString)
	if v := args.Get(0); v != nil {
		return v.(authgate.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTokenService implements authgate.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Generate(subject string, roles ...string) (string, error) {
	args := m.Called(subject, roles)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) SignClaims(claims *authgate.JWTClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(tokenString string) (authgate.AuthClaims, error) {
	args := m.Called(tokenString)
	if v := args.Get(0); v != nil {
		return v.(authgate.AuthClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTokenService) Subject(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Roles(tokenString string) ([]string, error) {
	args := m.Called(tokenString)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockSessionIssuer implements authgate.SessionIssuer
type MockSessionIssuer struct {
	mock.Mock
}

func (m *MockSessionIssuer) IssueSession(ctx context.Context, account *authgate.Account) (*authgate.IssuedSession, error) {
	args := m.Called(ctx, account)
	if v := args.Get(0); v != nil {
		return v.(*authgate.IssuedSession), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockContext mocks router.Context
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

func (m *MockContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
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

func (m *MockContext) FormFile(key string) (*multipart.FileHeader, error) {
	args := m.Called(key)
	if v := args.Get(0); v != nil {
		return v.(*multipart.FileHeader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		args := m.Called(key, defaultValue[0])
		return args.String(0)
	}
	args := m.Called(key)
	return args.String(0)
}

func (m *MockContext) IP() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) LocalsMerge(key any, value map[string]any) map[string]any {
	args := m.Called(key, value)
	if v := args.Get(0); v != nil {
		return v.(map[string]any)
	}
	return nil
}

func (m *MockContext) QueryValues(name string) []string {
	args := m.Called(name)
	if v := args.Get(0); v != nil {
		return v.([]string)
	}
	return nil
}

func (m *MockContext) RouteName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockContext) RouteParams() map[string]string {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.(map[string]string)
	}
	return nil
}

func (m *MockContext) SendStatus(code int) error {
	args := m.Called(code)
	return args.Error(0)
}

func (m *MockContext) SendStream(r io.Reader) error {
	args := m.Called(r)
	return args.Error(0)
}
