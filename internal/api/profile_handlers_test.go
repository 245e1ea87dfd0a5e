package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
)

func TestGetProfile(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, userID := ts.signup(t, "profile@example.com")

	resp := ts.api.Get("/user/profile", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	profile := decode[service.Profile](t, resp)
	assert.Equal(t, userID, profile.ID)
	assert.Equal(t, "profile@example.com", profile.Email)
	assert.Equal(t, color.ForUser(userID), profile.AvatarColor)
	assert.NotContains(t, resp.Body.String(), "argon2id")
}

func TestUpdateProfile(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "before@example.com")

	resp := ts.api.Patch("/user/profile", authHeader, map[string]any{
		"name":       "Renamed",
		"avatar_url": "/uploads/avatars/girl.png",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	profile := decode[service.Profile](t, resp)
	assert.Equal(t, "Renamed", profile.Name)
	assert.Equal(t, "before@example.com", profile.Email)
	if assert.NotNil(t, profile.AvatarURL) {
		assert.Equal(t, "/uploads/avatars/girl.png", *profile.AvatarURL)
	}
}

func TestUpdateProfile_EmptyBody(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, _ := ts.signup(t, "empty@example.com")

	resp := ts.api.Patch("/user/profile", authHeader, map[string]any{})

	body := requireError(t, resp, http.StatusBadRequest, "VALIDATION")
	assert.Contains(t, body.Details, "body")
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	ts := setupTestServer(t)
	ts.signup(t, "taken@example.com")
	authHeader, _ := ts.signup(t, "mover@example.com")

	resp := ts.api.Patch("/user/profile", authHeader, map[string]any{"email": "taken@example.com"})

	requireError(t, resp, http.StatusConflict, "CONFLICT")
}

func TestSettings(t *testing.T) {
	ts := setupTestServer(t)
	authHeader, userID := ts.signup(t, "settings@example.com")

	resp := ts.api.Get("/user/settings", authHeader)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	settings := decode[domain.UserSettings](t, resp)
	assert.Equal(t, userID, settings.UserID)
	assert.True(t, settings.AutoSave)

	resp = ts.api.Patch("/user/settings", authHeader, map[string]any{"autoSave": false})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.False(t, decode[domain.UserSettings](t, resp).AutoSave)

	resp = ts.api.Get("/user/settings", authHeader)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.False(t, decode[domain.UserSettings](t, resp).AutoSave)
}
