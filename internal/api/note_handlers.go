package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/markdown"
	"github.com/notesapp/notes-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotes",
		Method:      http.MethodGet,
		Path:        "/notes",
		Summary:     "List notes",
		Description: "Returns a page of the current user's notes, newest first",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleListNotes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createNote",
		Method:        http.MethodPost,
		Path:          "/notes",
		Summary:       "Create note",
		Description:   "Creates a note and links the given tags",
		Tags:          []string{"Notes"},
		Security:      bearerAuth,
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getNote",
		Method:      http.MethodGet,
		Path:        "/notes/{id}",
		Summary:     "Get note",
		Description: "Returns a note by ID",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleGetNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/notes/{id}",
		Summary:     "Update note",
		Description: "Applies a partial update; tagIds, when present, replaces the tag set",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/notes/{id}",
		Summary:     "Delete note",
		Description: "Deletes a note and its tag links",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleArchive",
		Method:      http.MethodPatch,
		Path:        "/notes/{id}/archive",
		Summary:     "Toggle archive",
		Description: "Flips the archived flag",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleToggleArchive)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPatch,
		Path:        "/notes/{id}/favorite",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag",
		Tags:        []string{"Notes"},
		Security:    bearerAuth,
	}, s.handleToggleFavorite)
}

// === DTOs ===

// ListNotesInput contains parameters for listing notes.
type ListNotesInput struct {
	Page       int    `query:"page" default:"1" doc:"Page number, from 1"`
	Limit      int    `query:"limit" default:"9" doc:"Notes per page, at most 100"`
	Search     string `query:"search" doc:"Case-insensitive substring of title or content"`
	IsFavorite string `query:"isFavorite" doc:"Only favorites (true) or non-favorites (false)"`
	IsArchived string `query:"isArchived" doc:"Only archived (true) or active (false) notes"`
}

// ListNotesOutput wraps a page of notes for Huma.
type ListNotesOutput struct {
	Body service.NoteList
}

// CreateNoteRequest is the request body for creating a note.
type CreateNoteRequest struct {
	Title         string   `json:"title,omitempty" doc:"Title, 1 to 100 characters"`
	Content       string   `json:"content,omitempty" doc:"Body, markdown unless contentFormat is html"`
	Emoji         string   `json:"emoji,omitempty" doc:"Optional emoji"`
	TagIDs        []string `json:"tagIds,omitempty" doc:"IDs of the user's tags, at most 10"`
	IsFavorite    bool     `json:"isFavorite,omitempty" doc:"Start as favorite"`
	IsArchived    bool     `json:"isArchived,omitempty" doc:"Start archived"`
	ContentFormat string   `json:"contentFormat,omitempty" doc:"markdown (default) or html; html is converted to markdown"`
}

// CreateNoteInput wraps the create note request for Huma.
type CreateNoteInput struct {
	Body CreateNoteRequest
}

// NoteCreatedResponse is the created note plus a confirmation message.
type NoteCreatedResponse struct {
	domain.Note
	Message string `json:"message" doc:"Confirmation message"`
}

// NoteCreatedOutput wraps the created note for Huma.
type NoteCreatedOutput struct {
	Body NoteCreatedResponse
}

// NoteIDInput addresses a single note.
type NoteIDInput struct {
	ID string `path:"id" doc:"Note ID"`
}

// NoteOutput wraps a note for Huma.
type NoteOutput struct {
	Body *domain.Note
}

// UpdateNoteRequest is the request body for a partial note update.
type UpdateNoteRequest struct {
	Title         *string  `json:"title,omitempty" doc:"New title"`
	Content       *string  `json:"content,omitempty" doc:"New body"`
	Emoji         *string  `json:"emoji,omitempty" doc:"New emoji; empty string clears it"`
	TagIDs        []string `json:"tagIds,omitempty" doc:"Replacement tag set; [] removes all tags"`
	IsFavorite    *bool    `json:"isFavorite,omitempty" doc:"Favorite flag"`
	IsArchived    *bool    `json:"isArchived,omitempty" doc:"Archived flag"`
	ContentFormat string   `json:"contentFormat,omitempty" doc:"Format of content: markdown or html"`
}

// UpdateNoteInput wraps the update note request for Huma.
type UpdateNoteInput struct {
	ID   string `path:"id" doc:"Note ID"`
	Body UpdateNoteRequest
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListNotes(ctx context.Context, input *ListNotesInput) (*ListNotesOutput, error) {
	userID := getUserID(ctx)

	isFavorite, err := parseBoolQuery("isFavorite", input.IsFavorite)
	if err != nil {
		return nil, err
	}
	isArchived, err := parseBoolQuery("isArchived", input.IsArchived)
	if err != nil {
		return nil, err
	}

	list, err := s.services.Note.ListNotes(ctx, userID, service.ListNotesRequest{
		Page:       input.Page,
		Limit:      input.Limit,
		Search:     input.Search,
		IsFavorite: isFavorite,
		IsArchived: isArchived,
	})
	if err != nil {
		return nil, err
	}

	return &ListNotesOutput{Body: *list}, nil
}

func (s *Server) handleCreateNote(ctx context.Context, input *CreateNoteInput) (*NoteCreatedOutput, error) {
	userID := getUserID(ctx)

	note, err := s.services.Note.CreateNote(ctx, userID, service.CreateNoteRequest{
		Title:         input.Body.Title,
		Content:       input.Body.Content,
		Emoji:         input.Body.Emoji,
		TagIDs:        input.Body.TagIDs,
		IsFavorite:    input.Body.IsFavorite,
		IsArchived:    input.Body.IsArchived,
		ContentFormat: markdown.Format(input.Body.ContentFormat),
	})
	if err != nil {
		return nil, err
	}

	return &NoteCreatedOutput{Body: NoteCreatedResponse{
		Note:    *note,
		Message: service.CreatedMessage(note),
	}}, nil
}

func (s *Server) handleGetNote(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	userID := getUserID(ctx)

	note, err := s.services.Note.GetNote(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*NoteOutput, error) {
	userID := getUserID(ctx)

	note, err := s.services.Note.UpdateNote(ctx, userID, input.ID, service.UpdateNoteRequest{
		Title:         input.Body.Title,
		Content:       input.Body.Content,
		Emoji:         input.Body.Emoji,
		TagIDs:        input.Body.TagIDs,
		IsFavorite:    input.Body.IsFavorite,
		IsArchived:    input.Body.IsArchived,
		ContentFormat: markdown.Format(input.Body.ContentFormat),
	})
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *NoteIDInput) (*MessageOutput, error) {
	userID := getUserID(ctx)

	if _, err := s.services.Note.DeleteNote(ctx, userID, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "Note deleted successfully"}}, nil
}

func (s *Server) handleToggleArchive(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	userID := getUserID(ctx)

	note, err := s.services.Note.ArchiveNote(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: note}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *NoteIDInput) (*NoteOutput, error) {
	userID := getUserID(ctx)

	note, err := s.services.Note.ToggleFavorite(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &NoteOutput{Body: note}, nil
}
