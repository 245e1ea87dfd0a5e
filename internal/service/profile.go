package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/notesapp/notes-server/internal/color"
	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/store"
)

// ProfileService reads and edits the caller's own account.
type ProfileService struct {
	store  store.UserStore
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store store.UserStore, logger *slog.Logger) *ProfileService {
	return &ProfileService{store: store, logger: discardLogger(logger)}
}

// Profile is the public view of an account.
type Profile struct {
	domain.User
	AvatarColor string `json:"avatarColor"`
}

// UpdateProfileRequest lists the editable fields; at least one must be set.
type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitnil,email,max=254"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitnil,max=2048"`
}

// GetProfile returns the user's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "get profile")
	}
	return newProfile(user), nil
}

// UpdateProfile applies the set fields. An email already used by another account is a CONFLICT.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*Profile, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		req.Email = &email
	}

	patch := domain.UserPatch{Name: req.Name, Email: req.Email, AvatarURL: req.AvatarURL}
	if patch.IsEmpty() {
		return nil, domainerrors.FieldError("body", "at least one field is required")
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, s.translate(err, "get profile")
	}

	patch.Apply(user)
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, s.translate(err, "update profile")
	}

	s.logger.Info("profile updated", "user_id", userID)
	return newProfile(user), nil
}

func (s *ProfileService) translate(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("User not found")
	case errors.Is(err, store.ErrAlreadyExists):
		return domainerrors.Conflict("Email already in use")
	default:
		return internalError(s.logger, op, err)
	}
}

func newProfile(u *domain.User) *Profile {
	return &Profile{User: *u, AvatarColor: color.ForUser(u.ID)}
}
