package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listTags",
		Method:      http.MethodGet,
		Path:        "/tags",
		Summary:     "List tags",
		Description: "Returns all tags for the current user, ordered by name",
		Tags:        []string{"Tags"},
		Security:    bearerAuth,
	}, s.handleListTags)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/tags",
		Summary:       "Create tag",
		Description:   "Creates one tag, or the default tag set when createDefaults is true",
		Tags:          []string{"Tags"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)
}

// === DTOs ===

// ListTagsInput contains parameters for listing tags.
type ListTagsInput struct{}

// ListTagsOutput wraps the tag list for Huma.
type ListTagsOutput struct {
	Body []domain.Tag
}

// CreateTagRequest is the request body for creating tags.
type CreateTagRequest struct {
	Name           string `json:"name,omitempty" doc:"Tag name, at most 50 characters"`
	Color          string `json:"color,omitempty" doc:"Color as #RRGGBB"`
	CreateDefaults bool   `json:"createDefaults,omitempty" doc:"Create the default tag set instead of a single tag"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	Body CreateTagRequest
}

// CreateTagOutput holds the created tag, or the list of default tags.
type CreateTagOutput struct {
	Body any
}

// === Handlers ===

func (s *Server) handleListTags(ctx context.Context, _ *ListTagsInput) (*ListTagsOutput, error) {
	userID := getUserID(ctx)

	tags, err := s.services.Tag.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListTagsOutput{Body: tags}, nil
}

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*CreateTagOutput, error) {
	userID := getUserID(ctx)

	if input.Body.CreateDefaults {
		tags, err := s.services.Tag.SeedDefaultTags(ctx, userID)
		if err != nil {
			return nil, err
		}
		return &CreateTagOutput{Body: tags}, nil
	}

	tag, err := s.services.Tag.CreateTag(ctx, userID, service.CreateTagRequest{
		Name:  input.Body.Name,
		Color: input.Body.Color,
	})
	if err != nil {
		return nil, err
	}
	return &CreateTagOutput{Body: tag}, nil
}
