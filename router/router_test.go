package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/princeade/taskvault/store"
	"github.com/princeade/taskvault/utils"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWTSecret:        []byte("test-access-secret"),
		JWTRefreshSecret: []byte("test-refresh-secret"),
		AccessTTL:        15 * time.Minute,
		RefreshTTL:       7 * 24 * time.Hour,
		BcryptCost:       10,
		CookieSecure:     false,
		AllowedOrigins:   []string{"http://localhost:5173"},
	}
}

type testEnv struct {
	cfg    *utils.Config
	users  *store.MemoryUserStore
	ledger *store.MemoryTokenLedger
	todos  *store.MemoryTodoStore
	engine *gin.Engine
}

func newTestEnv(t *testing.T, opts ...func(*utils.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		cfg:    testConfig(),
		users:  store.NewMemoryUserStore(),
		ledger: store.NewMemoryTokenLedger(),
		todos:  store.NewMemoryTodoStore(),
	}
	for _, opt := range opts {
		opt(env.cfg)
	}
	env.engine = New(Deps{
		Cfg:    env.cfg,
		Users:  env.users,
		Ledger: env.ledger,
		Todos:  env.todos,
	})
	return env
}

type request struct {
	method  string
	path    string
	body    string
	token   string
	cookies []*http.Cookie
}

func (e *testEnv) do(t *testing.T, r request) *httptest.ResponseRecorder {
	t.Helper()

	var body *strings.Reader
	if r.body != "" {
		body = strings.NewReader(r.body)
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(r.method, r.path, body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (e *testEnv) register(t *testing.T, name, email, password string) {
	t.Helper()
	w := e.do(t, request{
		method: http.MethodPost,
		path:   "/api/users/register",
		body:   `{"name":"` + name + `","email":"` + email + `","password":"` + password + `"}`,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// login returns the access token and the refresh cookie.
func (e *testEnv) login(t *testing.T, email, password string) (string, *http.Cookie) {
	t.Helper()
	w := e.do(t, request{
		method: http.MethodPost,
		path:   "/api/users/login",
		body:   `{"email":"` + email + `","password":"` + password + `"}`,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	token, _ := body["accessToken"].(string)
	require.NotEmpty(t, token)

	for _, c := range w.Result().Cookies() {
		if c.Name == utils.RefreshCookieName && c.Value != "" {
			return token, c
		}
	}
	t.Fatal("login response did not set a refresh cookie")
	return "", nil
}
