package handlers_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"shift_scheduler_backend/internal/middleware"
	"shift_scheduler_backend/internal/router"
	"shift_scheduler_backend/internal/testutil"
	"shift_scheduler_backend/pkg/utils"
)

const testXSRF = "test-antiforgery-token"

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type testApp struct {
	t      *testing.T
	db     *sql.DB
	engine *gin.Engine
	tokens *utils.TokenManager
}

type caller struct {
	id   string
	name string
	role string
}

var anonymous = caller{}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	tokens, err := utils.NewTokenManager("handler-test-secret", 4*time.Hour)
	require.NoError(t, err)
	return &testApp{
		t:      t,
		db:     db,
		tokens: tokens,
		engine: router.NewEngine(router.Options{DB: db, Tokens: tokens}),
	}
}

func (a *testApp) user(name, role string) caller {
	return caller{id: testutil.SeedUser(a.t, a.db, name, role), name: name, role: role}
}

// do sends a form-encoded request with a valid anti-forgery pair, signed in
// as who unless who is anonymous.
func (a *testApp) do(method, path string, form url.Values, who caller) *httptest.ResponseRecorder {
	a.t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.AddCookie(&http.Cookie{Name: middleware.AntiforgeryCookieName, Value: testXSRF})
	req.Header.Set(middleware.AntiforgeryHeaderName, testXSRF)
	if who.id != "" {
		token, _, err := a.tokens.Generate(who.id, who.name, who.role)
		require.NoError(a.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// jsonRequest builds a JSON request authenticated with a bearer token.
func jsonRequest(method, path, payload, token string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: middleware.AntiforgeryCookieName, Value: testXSRF})
	req.Header.Set(middleware.AntiforgeryHeaderName, testXSRF)
	return req
}

func serve(app *testApp, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	return w
}
