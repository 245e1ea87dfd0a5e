package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/notesapp/notes-server/internal/domain"
	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/markdown"
	"github.com/notesapp/notes-server/internal/metrics"
	"github.com/notesapp/notes-server/internal/store"
)

// NoteService implements note CRUD, listing and flag toggles for a single owner.
type NoteService struct {
	store   store.NoteStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(store store.NoteStore, m *metrics.Metrics, logger *slog.Logger) *NoteService {
	return &NoteService{store: store, metrics: m, logger: discardLogger(logger)}
}

// CreateNoteRequest is the body of a new note. Content in HTML format is converted to
// markdown before the length rules are checked.
type CreateNoteRequest struct {
	Title         string          `json:"title" validate:"required,min=1,max=100"`
	Content       string          `json:"content" validate:"required,min=1,max=50000"`
	Emoji         string          `json:"emoji,omitempty" validate:"max=10"`
	TagIDs        []string        `json:"tagIds,omitempty" validate:"max=10,dive,required"`
	IsFavorite    bool            `json:"isFavorite,omitempty"`
	IsArchived    bool            `json:"isArchived,omitempty"`
	ContentFormat markdown.Format `json:"contentFormat,omitempty" validate:"omitempty,oneof=markdown html"`
}

// UpdateNoteRequest is a partial note update. Nil fields are left unchanged; a non-nil
// TagIDs replaces the tag set.
type UpdateNoteRequest struct {
	Title         *string         `json:"title,omitempty" validate:"omitnil,min=1,max=100"`
	Content       *string         `json:"content,omitempty" validate:"omitnil,min=1,max=50000"`
	Emoji         *string         `json:"emoji,omitempty" validate:"omitnil,max=10"`
	TagIDs        []string        `json:"tagIds,omitempty" validate:"omitempty,max=10,dive,required"`
	IsFavorite    *bool           `json:"isFavorite,omitempty"`
	IsArchived    *bool           `json:"isArchived,omitempty"`
	ContentFormat markdown.Format `json:"contentFormat,omitempty" validate:"omitempty,oneof=markdown html"`
}

// ListNotesRequest selects one page of notes. Page and Limit are never defaulted: the
// zero value is rejected, so callers start from NewListNotesRequest.
type ListNotesRequest struct {
	Page       int    `query:"page" validate:"gte=1"`
	Limit      int    `query:"limit" validate:"gte=1,lte=100"`
	Search     string `query:"search"`
	IsFavorite *bool  `query:"isFavorite"`
	IsArchived *bool  `query:"isArchived"`
}

// NewListNotesRequest returns a request for the first page at the default page size.
func NewListNotesRequest() ListNotesRequest {
	return ListNotesRequest{Page: store.DefaultPage, Limit: store.DefaultLimit}
}

// NoteList is one page of notes.
type NoteList struct {
	Notes      []domain.Note    `json:"notes"`
	Pagination store.Pagination `json:"pagination"`
}

// CreateNote stores a new note and links the given tags, all owned by ownerID.
func (s *NoteService) CreateNote(ctx context.Context, ownerID string, req CreateNoteRequest) (_ *domain.Note, err error) {
	defer func() { s.metrics.ObserveNoteOperation("create", err) }()

	if req.Content, err = normalizeContent(req.Content, req.ContentFormat); err != nil {
		return nil, err
	}
	req.TagIDs = dedupe(req.TagIDs)
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.Note)
	if err != nil {
		return nil, internalError(s.logger, "generate note id", err)
	}

	note := &domain.Note{
		ID:         noteID,
		OwnerID:    ownerID,
		Title:      req.Title,
		Content:    req.Content,
		Emoji:      req.Emoji,
		IsFavorite: req.IsFavorite,
		IsArchived: req.IsArchived,
	}
	note.InitTimestamps()

	if err := s.store.CreateNote(ctx, note, req.TagIDs); err != nil {
		return nil, s.translate(err, "create note")
	}

	s.logger.Debug("note created", "user_id", ownerID, "note_id", note.ID, "tags", len(note.Tags))
	return note, nil
}

// GetNote returns one of the owner's notes. Notes of other users are NOT_FOUND.
func (s *NoteService) GetNote(ctx context.Context, ownerID, noteID string) (*domain.Note, error) {
	note, err := s.store.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, s.translate(err, "get note")
	}
	return note, nil
}

// ListNotes returns a page of the owner's notes, newest first. Bounds are checked before
// the store is touched.
func (s *NoteService) ListNotes(ctx context.Context, ownerID string, req ListNotesRequest) (*NoteList, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	page := store.Page{Number: req.Page, Limit: req.Limit}
	filter := domain.NoteFilter{Search: req.Search, IsFavorite: req.IsFavorite, IsArchived: req.IsArchived}

	notes, total, err := s.store.ListNotes(ctx, ownerID, filter, page)
	if err != nil {
		return nil, internalError(s.logger, "list notes", err)
	}

	return &NoteList{Notes: notes, Pagination: store.NewPagination(page, total)}, nil
}

// UpdateNote applies a partial update. UpdatedAt advances even when nothing else changes.
func (s *NoteService) UpdateNote(ctx context.Context, ownerID, noteID string, req UpdateNoteRequest) (_ *domain.Note, err error) {
	defer func() { s.metrics.ObserveNoteOperation("update", err) }()

	if req.Content != nil {
		content, err := normalizeContent(*req.Content, req.ContentFormat)
		if err != nil {
			return nil, err
		}
		req.Content = &content
	}
	if req.TagIDs != nil {
		req.TagIDs = dedupe(req.TagIDs)
	}
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	patch := domain.NotePatch{
		Title:      req.Title,
		Content:    req.Content,
		Emoji:      req.Emoji,
		IsFavorite: req.IsFavorite,
		IsArchived: req.IsArchived,
	}
	if req.TagIDs != nil {
		tagIDs := req.TagIDs
		patch.TagIDs = &tagIDs
	}

	note, err := s.store.UpdateNote(ctx, noteID, ownerID, patch)
	if err != nil {
		return nil, s.translate(err, "update note")
	}
	return note, nil
}

// DeleteNote removes the note and returns it as it was.
func (s *NoteService) DeleteNote(ctx context.Context, ownerID, noteID string) (_ *domain.Note, err error) {
	defer func() { s.metrics.ObserveNoteOperation("delete", err) }()

	note, err := s.store.DeleteNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, s.translate(err, "delete note")
	}
	s.logger.Debug("note deleted", "user_id", ownerID, "note_id", noteID)
	return note, nil
}

// ArchiveNote flips the archived flag.
func (s *NoteService) ArchiveNote(ctx context.Context, ownerID, noteID string) (_ *domain.Note, err error) {
	defer func() { s.metrics.ObserveNoteOperation("archive", err) }()
	return s.toggle(ctx, ownerID, noteID, domain.FlagArchived)
}

// ToggleFavorite flips the favorite flag.
func (s *NoteService) ToggleFavorite(ctx context.Context, ownerID, noteID string) (_ *domain.Note, err error) {
	defer func() { s.metrics.ObserveNoteOperation("favorite", err) }()
	return s.toggle(ctx, ownerID, noteID, domain.FlagFavorite)
}

func (s *NoteService) toggle(ctx context.Context, ownerID, noteID string, flag domain.NoteFlag) (*domain.Note, error) {
	note, err := s.store.ToggleNoteFlag(ctx, noteID, ownerID, flag)
	if err != nil {
		return nil, s.translate(err, "toggle "+string(flag))
	}
	return note, nil
}

func (s *NoteService) translate(err error, op string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domainerrors.NotFound("Note not found")
	case errors.Is(err, store.ErrInvalidReference):
		return domainerrors.FieldError("tagIds", "contains an unknown tag")
	default:
		return internalError(s.logger, op, err)
	}
}

// CreatedMessage is the confirmation returned with a new note.
func CreatedMessage(note *domain.Note) string {
	if n := len(note.Tags); n > 0 {
		return fmt.Sprintf("Note created successfully with %d tag(s)", n)
	}
	return "Note created successfully"
}

func normalizeContent(content string, format markdown.Format) (string, error) {
	if !format.Valid() {
		return "", domainerrors.FieldError("contentFormat", "must be one of: markdown html")
	}
	md, err := markdown.Normalize(content, format)
	if err != nil {
		return "", domainerrors.FieldError("content", "could not be converted from HTML")
	}
	return md, nil
}

// dedupe drops repeated ids, keeping first occurrences in order.
func dedupe(ids []string) []string {
	if ids == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
