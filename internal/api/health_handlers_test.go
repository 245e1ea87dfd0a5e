package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("database is locked") }

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	body := decode[HealthResponse](t, resp)
	assert.Contains(t, []string{statusHealthy, statusDegraded}, body.Status)
	assert.Equal(t, statusHealthy, body.Components["database"].Status)
	assert.Contains(t, body.Components, "disk")
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	s := NewServer(&Services{}, Options{DB: failingPinger{}, DataPath: t.TempDir()}, nil)
	api := humatest.Wrap(t, s.API())

	resp := api.Get("/health")
	require.Equal(t, http.StatusServiceUnavailable, resp.Code, resp.Body.String())

	body := decode[HealthResponse](t, resp)
	assert.Equal(t, statusUnhealthy, body.Status)
	assert.Equal(t, "database unreachable", body.Components["database"].Message)
	assert.NotContains(t, resp.Body.String(), "locked")
}

func TestDiskHealth(t *testing.T) {
	assert.Equal(t, statusHealthy, diskHealth(40, 10<<30).Status)
	assert.Equal(t, statusDegraded, diskHealth(97.5, 1<<20).Status)
	assert.Equal(t, "97.5% used, 1 MiB free", diskHealth(97.5, 1<<20).Message)
}
