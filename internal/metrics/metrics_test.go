package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCounters(t *testing.T) {
	m := New()

	m.ObserveNoteOperation("create", nil)
	m.ObserveNoteOperation("create", nil)
	m.ObserveNoteOperation("delete", errors.New("boom"))
	m.ObserveAuthAttempt("login", errors.New("bad password"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.noteOps.WithLabelValues("create", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.noteOps.WithLabelValues("delete", StatusFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authAttempts.WithLabelValues("login", StatusFailure)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveNoteOperation("create", nil)
	m.ObserveAuthAttempt("login", nil)
	assert.Nil(t, m.Registry())

	called := false
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/notes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/notes/a", "/notes/b", "/ok"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/notes/{id}", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests))
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveNoteOperation("archive", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `notes_operations_total{operation="archive",status="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
