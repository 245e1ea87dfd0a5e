package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/user/profile",
		Summary:     "Get profile",
		Description: "Returns the current user's profile",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/user/profile",
		Summary:     "Update profile",
		Description: "Updates name, email or avatar; at least one field is required",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleUpdateProfile)
}

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/user/settings",
		Summary:     "Get settings",
		Description: "Returns the current user's settings, creating defaults on first access",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/user/settings",
		Summary:     "Update settings",
		Description: "Updates the current user's settings",
		Tags:        []string{"Profile"},
		Security:    bearerAuth,
	}, s.handleUpdateSettings)
}

// === DTOs ===

// AuthInput is the input of operations that need only the bearer token.
type AuthInput struct{}

// ProfileOutput wraps the profile for Huma.
type ProfileOutput struct {
	Body *service.Profile
}

// UpdateProfileRequest is the request body for a profile update.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" doc:"Display name"`
	Email     *string `json:"email,omitempty" doc:"Email address"`
	AvatarURL *string `json:"avatar_url,omitempty" doc:"Avatar image URL"`
}

// UpdateProfileInput wraps the profile update for Huma.
type UpdateProfileInput struct {
	Body UpdateProfileRequest
}

// SettingsOutput wraps the settings for Huma.
type SettingsOutput struct {
	Body *domain.UserSettings
}

// UpdateSettingsRequest is the request body for a settings update.
type UpdateSettingsRequest struct {
	AutoSave *bool `json:"autoSave,omitempty" doc:"Save edits automatically"`
}

// UpdateSettingsInput wraps the settings update for Huma.
type UpdateSettingsInput struct {
	Body UpdateSettingsRequest
}

// === Handlers ===

func (s *Server) handleGetProfile(ctx context.Context, _ *AuthInput) (*ProfileOutput, error) {
	userID := getUserID(ctx)

	profile, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID := getUserID(ctx)

	profile, err := s.services.Profile.UpdateProfile(ctx, userID, service.UpdateProfileRequest{
		Name:      input.Body.Name,
		Email:     input.Body.Email,
		AvatarURL: input.Body.AvatarURL,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: profile}, nil
}

func (s *Server) handleGetSettings(ctx context.Context, _ *AuthInput) (*SettingsOutput, error) {
	userID := getUserID(ctx)

	settings, err := s.services.Settings.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: settings}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID := getUserID(ctx)

	settings, err := s.services.Settings.UpdateSettings(ctx, userID, service.UpdateSettingsRequest{
		AutoSave: input.Body.AutoSave,
	})
	if err != nil {
		return nil, err
	}
	return &SettingsOutput{Body: settings}, nil
}
