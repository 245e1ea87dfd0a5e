package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/store"
)

// SettingsService manages per-user client preferences.
type SettingsService struct {
	store  store.SettingsStore
	logger *slog.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(store store.SettingsStore, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: store, logger: discardLogger(logger)}
}

// UpdateSettingsRequest is a partial settings update.
type UpdateSettingsRequest struct {
	AutoSave *bool `json:"autoSave,omitempty"`
}

// GetSettings returns the user's settings, creating defaults on first access.
func (s *SettingsService) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	st, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "get settings")
	}
	return st, nil
}

// UpdateSettings applies the set fields and returns the stored settings.
func (s *SettingsService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*domain.UserSettings, error) {
	st, err := s.store.GetSettings(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "get settings")
	}

	if req.AutoSave != nil {
		st.AutoSave = *req.AutoSave
	}
	st.Touch()

	if err := s.store.UpdateSettings(ctx, st); err != nil {
		return nil, s.translate(err, "update settings")
	}
	return st, nil
}

func (s *SettingsService) translate(err error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound("User not found")
	}
	return internalError(s.logger, op, err)
}
