package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/auth"
	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/metrics"
	"github.com/notesapp/notes-server/internal/service"
	"github.com/notesapp/notes-server/internal/store/sqlite"
)

// testServer wraps the API server for handler tests.
type testServer struct {
	*Server
	api     humatest.TestAPI
	store   *sqlite.Store
	metrics *metrics.Metrics
	key     []byte
}

// setupTestServer creates a server over a temporary database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()
	st, err := sqlite.Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	m := metrics.New()
	hasher := auth.NewPasswordHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

	services := &Services{
		Auth:     service.NewAuthService(st, hasher, tokens, m, logger),
		Note:     service.NewNoteService(st, m, logger),
		Tag:      service.NewTagService(st, logger),
		Profile:  service.NewProfileService(st, logger),
		Settings: service.NewSettingsService(st, logger),
	}

	s := NewServer(services, Options{
		Title:    "Notes API Test",
		DataPath: dir,
		DB:       st,
		Metrics:  m,
	}, logger)

	return &testServer{
		Server:  s,
		api:     humatest.Wrap(t, s.API()),
		store:   st,
		metrics: m,
		key:     key,
	}
}

// signup registers an account and logs it in, returning the bearer header and user ID.
func (ts *testServer) signup(t *testing.T, email string) (string, string) {
	t.Helper()

	resp := ts.api.Post("/register", map[string]any{
		"name":     "Test User",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = ts.api.Post("/auth/login", map[string]any{
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[LoginResponse](t, resp)
	return bearer(body.Token), body.User.ID
}

// tags returns the caller's tags.
func (ts *testServer) tags(t *testing.T, authHeader string) []domain.Tag {
	t.Helper()
	resp := ts.api.Get("/tags", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	return decode[[]domain.Tag](t, resp)
}

func bearer(token string) string {
	return "Authorization: Bearer " + token
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &v), resp.Body.String())
	return v
}

// errorBody is the decoded {code, message, details} error shape.
type errorBody struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

func requireError(t *testing.T, resp *httptest.ResponseRecorder, status int, code string) errorBody {
	t.Helper()
	require.Equal(t, status, resp.Code, resp.Body.String())
	body := decode[errorBody](t, resp)
	require.Equal(t, code, body.Code, resp.Body.String())
	return body
}

func TestServer_UnknownRouteUsesErrorShape(t *testing.T) {
	ts := setupTestServer(t)

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	requireError(t, w, http.StatusNotFound, "NOT_FOUND")
}

func TestServer_MethodNotAllowed(t *testing.T) {
	ts := setupTestServer(t)

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/notes", nil))

	requireError(t, w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
}

func TestServer_CORSPreflight(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/notes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "metrics@example.com")

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `auth_attempts_total{status="success",type="register"} 1`)
	assert.Contains(t, body, `http_requests_total{method="POST",route="/register",status="201"} 1`)
}

func TestServer_OpenAPIDocument(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/openapi.json")
	require.Equal(t, http.StatusOK, resp.Code)

	doc := decode[map[string]any](t, resp)
	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	for _, p := range []string{"/auth/login", "/register", "/notes", "/notes/{id}", "/notes/{id}/archive", "/notes/{id}/favorite", "/tags", "/user/profile", "/user/settings", "/health"} {
		assert.Contains(t, paths, p, fmt.Sprintf("missing path %s", p))
	}
}

func TestParseBoolQuery(t *testing.T) {
	v, err := parseBoolQuery("isFavorite", "")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseBoolQuery("isFavorite", "true")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = parseBoolQuery("isFavorite", "false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = parseBoolQuery("isFavorite", "1")
	assert.Error(t, err)
}
