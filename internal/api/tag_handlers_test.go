package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/domain"
)

func TestListTags_SeededOnRegistration(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, userID := ts.signup(t, "tags@example.com")

	tags := ts.tags(t, authHeader)

	require.Len(t, tags, len(domain.DefaultTags))
	for i, tag := range tags {
		assert.Equal(t, userID, tag.OwnerID)
		if i > 0 {
			assert.LessOrEqual(t, tags[i-1].Name, tag.Name)
		}
	}
}

func TestCreateTag(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "create-tag@example.com")

	resp := ts.api.Post("/tags", authHeader, map[string]any{"name": "  Travel ", "color": "#00AAFF"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	tag := decode[domain.Tag](t, resp)
	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "Travel", tag.Name)
	assert.Equal(t, "#00AAFF", tag.Color)
	assert.Len(t, ts.tags(t, authHeader), len(domain.DefaultTags)+1)
}

func TestCreateTag_DuplicateIsConflict(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "dup-tag@example.com")

	resp := ts.api.Post("/tags", authHeader, map[string]any{"name": "Work", "color": "#123456"})

	requireError(t, resp, http.StatusConflict, "CONFLICT")
}

func TestCreateTag_SameNameForDifferentUsers(t *testing.T) {
	ts := setupTestServer(t)
	annHeader, _ := ts.signup(t, "ann@example.com")
	bobHeader, _ := ts.signup(t, "bob@example.com")

	for _, h := range []string{annHeader, bobHeader} {
		resp := ts.api.Post("/tags", h, map[string]any{"name": "Recipes", "color": "#654321"})
		require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	}
}

func TestCreateTag_Validation(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "bad-tag@example.com")

	resp := ts.api.Post("/tags", authHeader, map[string]any{"name": "", "color": "red"})

	body := requireError(t, resp, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, body.Details, "name")
	assert.Contains(t, body.Details, "color")
}

func TestCreateTag_Defaults(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "defaults@example.com")

	// Registration already seeded the defaults.
	resp := ts.api.Post("/tags", authHeader, map[string]any{"createDefaults": true})
	requireError(t, resp, http.StatusConflict, "CONFLICT")
	assert.Len(t, ts.tags(t, authHeader), len(domain.DefaultTags))
}

func TestTags_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	requireError(t, ts.api.Get("/tags"), http.StatusUnauthorized, "UNAUTHORIZED")
	requireError(t, ts.api.Post("/tags", map[string]any{"name": "x", "color": "#000000"}), http.StatusUnauthorized, "UNAUTHORIZED")
}
