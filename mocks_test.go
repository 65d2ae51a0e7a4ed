package accounts_test

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"

	"github.com/goliatone/go-router"
	accounts "github.com/solidus/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockAccountStorage implements accounts.AccountStorage
type MockAccountStorage struct {
	mock.Mock
}

func (m *MockAccountStorage) CreateAccount(ctx context.Context, name, passwordHash string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, name, passwordHash, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockAccountStorage) GetAccountDataByName(ctx context.Context, name string) (*accounts.AccountData, error) {
	args := m.Called(ctx, name)
	if data, ok := args.Get(0).(*accounts.AccountData); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStorage) SetPasswordHash(ctx context.Context, accountID, passwordHash string) error {
	args := m.Called(ctx, accountID, passwordHash)
	return args.Error(0)
}

func (m *MockAccountStorage) GetMetadata(ctx context.Context, accountID string) (map[string]string, error) {
	args := m.Called(ctx, accountID)
	if metadata, ok := args.Get(0).(map[string]string); ok {
		return metadata, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccountStorage) SetMetadata(ctx context.Context, accountID string, metadata map[string]string) error {
	args := m.Called(ctx, accountID, metadata)
	return args.Error(0)
}

func (m *MockAccountStorage) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

func (m *MockAccountStorage) RestoreAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockPasswordHasher implements accounts.PasswordHasher
type MockPasswordHasher struct {
	mock.Mock
}

func (m *MockPasswordHasher) Hash(ctx context.Context, password string) (string, error) {
	args := m.Called(ctx, password)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordHasher) Verify(ctx context.Context, hash, password string) (accounts.VerificationResult, error) {
	args := m.Called(ctx, hash, password)
	return args.Get(0).(accounts.VerificationResult), args.Error(1)
}

// MockAccountService implements accounts.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, name, password string, metadata map[string]string) (string, error) {
	args := m.Called(ctx, name, password, metadata)
	return args.String(0), args.Error(1)
}

func (m *MockAccountService) AuthenticateAccount(ctx context.Context, name, password string) (string, error) {
	args := m.Called(ctx, name, password)
	return args.String(0), args.Error(1)
}

// testContext is a stateful router.Context for handler and session
// tests: incoming cookies and body are seeded, written cookies and JSON
// responses are captured.
type testContext struct {
	ctx context.Context

	method      string
	originalURL string
	body        []byte
	cookies     map[string]string

	SetCookies     []*router.Cookie
	JSONStatus     int
	JSONBody       any
	RedirectedTo   string
	RedirectStatus int

	locals     map[any]any
	nextCalled bool
}

func newTestContext() *testContext {
	return &testContext{
		ctx:     context.Background(),
		method:  "POST",
		cookies: map[string]string{},
		locals:  map[any]any{},
	}
}

func (t *testContext) withJSONBody(v any) *testContext {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	t.body = body
	return t
}

func (t *testContext) withCookie(name, value string) *testContext {
	t.cookies[name] = value
	return t
}

// followUp returns a new request context carrying the cookies the
// previous response set, the way a browser would.
func (t *testContext) followUp() *testContext {
	next := newTestContext()
	for name, value := range t.cookies {
		next.cookies[name] = value
	}
	for _, cookie := range t.SetCookies {
		if cookie.Value == "" {
			delete(next.cookies, cookie.Name)
			continue
		}
		next.cookies[cookie.Name] = cookie.Value
	}
	return next
}

func (t *testContext) Next() error {
	t.nextCalled = true
	return nil
}

func (t *testContext) Context() context.Context         { return t.ctx }
func (t *testContext) SetContext(ctx context.Context)   { t.ctx = ctx }
func (t *testContext) Path() string                     { return t.originalURL }
func (t *testContext) Method() string                   { return t.method }
func (t *testContext) Body() []byte                     { return t.body }
func (t *testContext) Status(code int) router.Context   { t.JSONStatus = code; return t }
func (t *testContext) SendString(s string) error        { return nil }
func (t *testContext) Send(b []byte) error              { return nil }
func (t *testContext) NoContent(code int) error         { t.JSONStatus = code; return nil }
func (t *testContext) OriginalURL() string              { return t.originalURL }
func (t *testContext) Referer() string                  { return "" }
func (t *testContext) OnNext(callback func() error)     {}
func (t *testContext) Set(key string, val any)          {}
func (t *testContext) SetHeader(key, val string) router.Context { return t }
func (t *testContext) Header(key string) string         { return "" }

func (t *testContext) JSON(code int, val any) error {
	t.JSONStatus = code
	t.JSONBody = val
	return nil
}

func (t *testContext) Render(name string, bind any, layout ...string) error { return nil }

func (t *testContext) Redirect(path string, status ...int) error {
	t.RedirectedTo = path
	if len(status) > 0 {
		t.RedirectStatus = status[0]
	}
	return nil
}

func (t *testContext) RedirectToRoute(name string, data router.ViewContext, status ...int) error {
	return nil
}

func (t *testContext) RedirectBack(fallback string, status ...int) error { return nil }

func (t *testContext) Get(key string, defaultValue any) any       { return defaultValue }
func (t *testContext) GetBool(key string, defaultValue bool) bool { return defaultValue }
func (t *testContext) GetInt(key string, def int) int             { return def }
func (t *testContext) GetString(key, defaultValue string) string  { return defaultValue }

func (t *testContext) Bind(i any) error {
	if len(t.body) == 0 {
		return nil
	}
	return json.Unmarshal(t.body, i)
}

func (t *testContext) BindJSON(i any) error       { return t.Bind(i) }
func (t *testContext) BindXML(i any) error        { return nil }
func (t *testContext) BindQuery(i any) error      { return nil }
func (t *testContext) CookieParser(i any) error   { return nil }

func (t *testContext) Cookie(cookie *router.Cookie) {
	t.SetCookies = append(t.SetCookies, cookie)
}

func (t *testContext) Cookies(key string, defaultValue ...string) string {
	if value, ok := t.cookies[key]; ok {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testContext) ParamsInt(key string, defaultValue int) int { return defaultValue }

func (t *testContext) Query(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testContext) QueryValues(key string) []string           { return nil }
func (t *testContext) QueryInt(key string, defaultValue int) int { return defaultValue }
func (t *testContext) Queries() map[string]string                { return nil }

func (t *testContext) LocalsMerge(key any, value map[string]any) map[string]any { return nil }

func (t *testContext) FormFile(key string) (*multipart.FileHeader, error) { return nil, nil }

func (t *testContext) FormValue(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (t *testContext) IP() string                    { return "" }
func (t *testContext) SendStatus(code int) error     { t.JSONStatus = code; return nil }
func (t *testContext) SendStream(r io.Reader) error  { return nil }
func (t *testContext) RouteName() string             { return "" }
func (t *testContext) RouteParams() map[string]string { return nil }

func (t *testContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		t.locals[key] = value[0]
		return nil
	}
	return t.locals[key]
}
