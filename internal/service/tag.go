package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

// TagService manages a user's tag catalog.
type TagService struct {
	store  store.TagStore
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.TagStore, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: discardLogger(logger)}
}

// CreateTagRequest is a single tag to add.
type CreateTagRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=50"`
	Color string `json:"color" validate:"required,hexcolor6"`
}

// NormalizeTagName trims surrounding space and applies NFC so names that render the same
// compare equal.
func NormalizeTagName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// CreateTag adds a tag for ownerID. A duplicate name is a CONFLICT.
func (s *TagService) CreateTag(ctx context.Context, ownerID string, req CreateTagRequest) (*domain.Tag, error) {
	req.Name = NormalizeTagName(req.Name)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.Tag)
	if err != nil {
		return nil, internalError(s.logger, "generate tag id", err)
	}
	tag := &domain.Tag{
		ID:        tagID,
		Name:      req.Name,
		Color:     req.Color,
		OwnerID:   ownerID,
		CreatedAt: domain.Now(),
	}

	if err := s.store.CreateTags(ctx, tag); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflictf("Tag %q already exists", req.Name)
		}
		return nil, internalError(s.logger, "create tag", err)
	}

	s.logger.Debug("tag created", "user_id", ownerID, "tag_id", tag.ID)
	return tag, nil
}

// ListTags returns the owner's tags ordered by name.
func (s *TagService) ListTags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	tags, err := s.store.ListTags(ctx, ownerID)
	if err != nil {
		return nil, internalError(s.logger, "list tags", err)
	}
	return tags, nil
}

// SeedDefaultTags inserts the default catalog in one transaction. It is not idempotent:
// when any default name already exists nothing is inserted and a CONFLICT is returned.
func (s *TagService) SeedDefaultTags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	tags, err := newTags(ownerID, domain.DefaultTags, domain.Now())
	if err != nil {
		return nil, internalError(s.logger, "generate tag ids", err)
	}

	if err := s.store.CreateTags(ctx, tags...); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("Default tags already exist")
		}
		return nil, internalError(s.logger, "seed default tags", err)
	}

	out := make([]domain.Tag, len(tags))
	for i, t := range tags {
		out[i] = *t
	}
	s.logger.Info("default tags created", "user_id", ownerID, "count", len(out))
	return out, nil
}
