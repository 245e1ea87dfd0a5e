package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/notesapp/notes-server/internal/errors"
	"github.com/notesapp/notes-server/internal/markdown"
)

func ptr[T any](v T) *T { return &v }

func TestNoteService_CreateNote(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, tags := env.register(t, "notes@example.com")

	note, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{
		Title:   "Plan",
		Content: "- step one",
		Emoji:   "📝",
		TagIDs:  []string{tags[0].ID, tags[1].ID, tags[0].ID},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(note.ID, "note-"))
	assert.Equal(t, user.ID, note.OwnerID)
	assert.False(t, note.IsFavorite)
	assert.False(t, note.IsArchived)
	assert.Len(t, note.Tags, 2)
	assert.Equal(t, "Note created successfully with 2 tag(s)", CreatedMessage(note))

	plain, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Plain", Content: "x", IsFavorite: true})
	require.NoError(t, err)
	assert.True(t, plain.IsFavorite)
	assert.Equal(t, "Note created successfully", CreatedMessage(plain))

	assert.Equal(t, 2.0, counterValue(t, env, "notes_operations_total", map[string]string{"operation": "create", "status": "success"}))
}

func TestNoteService_CreateNote_Validation(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "invalid@example.com")

	elevenTags := make([]string, 11)
	for i := range elevenTags {
		elevenTags[i] = fmt.Sprintf("tag-%d", i)
	}

	tests := []struct {
		name  string
		req   CreateNoteRequest
		field string
	}{
		{"empty title", CreateNoteRequest{Content: "c"}, "title"},
		{"long title", CreateNoteRequest{Title: strings.Repeat("t", 101), Content: "c"}, "title"},
		{"empty content", CreateNoteRequest{Title: "t"}, "content"},
		{"long content", CreateNoteRequest{Title: "t", Content: strings.Repeat("c", 50001)}, "content"},
		{"long emoji", CreateNoteRequest{Title: "t", Content: "c", Emoji: strings.Repeat("🙂", 11)}, "emoji"},
		{"too many tags", CreateNoteRequest{Title: "t", Content: "c", TagIDs: elevenTags}, "tagIds"},
		{"blank tag id", CreateNoteRequest{Title: "t", Content: "c", TagIDs: []string{""}}, "tagIds[0]"},
		{"bad format", CreateNoteRequest{Title: "t", Content: "c", ContentFormat: "rtf"}, "contentFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.notes.CreateNote(ctx, user.ID, tt.req)
			de := requireCode(t, err, domainerrors.CodeValidation)
			assert.Contains(t, fieldDetails(t, de), tt.field)
		})
	}

	// Limits count characters, not bytes.
	_, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: strings.Repeat("\u00e9", 100), Content: "c"})
	assert.NoError(t, err)

	list, err := env.notes.ListNotes(ctx, user.ID, ListNotesRequest{Page: 1, Limit: 9})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestNoteService_CreateNote_ForeignTag(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	alice, _ := env.register(t, "alice@example.com")
	_, bobTags := env.register(t, "bob@example.com")

	_, err := env.notes.CreateNote(ctx, alice.ID, CreateNoteRequest{Title: "t", Content: "c", TagIDs: []string{bobTags[0].ID}})
	de := requireCode(t, err, domainerrors.CodeValidation)
	assert.Contains(t, fieldDetails(t, de), "tagIds")

	list, err := env.notes.ListNotes(ctx, alice.ID, ListNotesRequest{Page: 1, Limit: 9})
	require.NoError(t, err)
	assert.Zero(t, list.Pagination.Total)
}

func TestNoteService_CreateNote_HTMLImport(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "html@example.com")

	note, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{
		Title:         "Imported",
		Content:       "<h2>Agenda</h2><p>Review <em>budget</em></p><script>evil()</script>",
		ContentFormat: markdown.FormatHTML,
	})
	require.NoError(t, err)
	assert.Contains(t, note.Content, "## Agenda")
	assert.Contains(t, note.Content, "budget")
	assert.NotContains(t, note.Content, "evil")
	assert.NotContains(t, note.Content, "<")

	// Content that is only markup converts to nothing and fails the required rule.
	_, err = env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{
		Title:         "Empty",
		Content:       "<script>only()</script>",
		ContentFormat: markdown.FormatHTML,
	})
	de := requireCode(t, err, domainerrors.CodeValidation)
	assert.Contains(t, fieldDetails(t, de), "content")
}

func TestNoteService_GetNote_OwnerScoped(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	alice, _ := env.register(t, "alice@example.com")
	bob, _ := env.register(t, "bob@example.com")

	note, err := env.notes.CreateNote(ctx, alice.ID, CreateNoteRequest{Title: "Secret", Content: "c"})
	require.NoError(t, err)

	got, err := env.notes.GetNote(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, got.ID)

	for _, op := range []func() error{
		func() error { _, err := env.notes.GetNote(ctx, bob.ID, note.ID); return err },
		func() error {
			_, err := env.notes.UpdateNote(ctx, bob.ID, note.ID, UpdateNoteRequest{Title: ptr("x")})
			return err
		},
		func() error { _, err := env.notes.DeleteNote(ctx, bob.ID, note.ID); return err },
		func() error { _, err := env.notes.ArchiveNote(ctx, bob.ID, note.ID); return err },
		func() error { _, err := env.notes.ToggleFavorite(ctx, bob.ID, note.ID); return err },
		func() error { _, err := env.notes.GetNote(ctx, alice.ID, "note-missing"); return err },
	} {
		de := requireCode(t, op(), domainerrors.CodeNotFound)
		assert.Equal(t, "Note not found", de.Message)
	}

	got, err = env.notes.GetNote(ctx, alice.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "Secret", got.Title)
	assert.False(t, got.IsArchived)
}

func TestNoteService_ListNotes(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "list@example.com")

	for i := range 12 {
		_, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{
			Title:      fmt.Sprintf("Note %d", i),
			Content:    "body",
			IsFavorite: i%3 == 0,
		})
		require.NoError(t, err)
	}

	list, err := env.notes.ListNotes(ctx, user.ID, ListNotesRequest{Page: 1, Limit: 9})
	require.NoError(t, err)
	assert.Len(t, list.Notes, 9)
	assert.Equal(t, 12, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.TotalPages)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 9, list.Pagination.Limit)

	list, err = env.notes.ListNotes(ctx, user.ID, ListNotesRequest{Page: 2, Limit: 9})
	require.NoError(t, err)
	assert.Len(t, list.Notes, 3)

	list, err = env.notes.ListNotes(ctx, user.ID, ListNotesRequest{Page: 1, Limit: 100, IsFavorite: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 4, list.Pagination.Total)

	list, err = env.notes.ListNotes(ctx, user.ID, ListNotesRequest{Page: 1, Limit: 100, Search: "NOTE 1"})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Pagination.Total, "Note 1, Note 10, Note 11")
}

func TestNoteService_ListNotes_RejectsBadPaging(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "paging@example.com")

	tests := []struct {
		req   ListNotesRequest
		field string
	}{
		{ListNotesRequest{Page: 0, Limit: 9}, "page"},
		{ListNotesRequest{Page: -1, Limit: 9}, "page"},
		{ListNotesRequest{Page: 1, Limit: 0}, "limit"},
		{ListNotesRequest{Page: 1, Limit: 101}, "limit"},
	}
	for _, tt := range tests {
		_, err := env.notes.ListNotes(ctx, user.ID, tt.req)
		de := requireCode(t, err, domainerrors.CodeValidation)
		assert.Contains(t, fieldDetails(t, de), tt.field)
	}
}

func TestNoteService_ListNotes_LongSearch(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "long-search@example.com")

	long := strings.Repeat("a", 150)
	_, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Long", Content: "x" + long + "y"})
	require.NoError(t, err)
	_, err = env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Short", Content: "aaa"})
	require.NoError(t, err)

	req := NewListNotesRequest()
	req.Search = strings.ToUpper(long)
	list, err := env.notes.ListNotes(ctx, user.ID, req)
	require.NoError(t, err)
	require.Len(t, list.Notes, 1)
	assert.Equal(t, "Long", list.Notes[0].Title)
}

func TestNoteService_ListNotes_Defaults(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "defaults@example.com")

	for i := range 10 {
		_, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: fmt.Sprintf("Note %d", i), Content: "body"})
		require.NoError(t, err)
	}

	list, err := env.notes.ListNotes(ctx, user.ID, NewListNotesRequest())
	require.NoError(t, err)
	assert.Len(t, list.Notes, 9)
	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 9, list.Pagination.Limit)
	assert.Equal(t, 2, list.Pagination.TotalPages)

	_, err = env.notes.ListNotes(ctx, user.ID, ListNotesRequest{})
	de := requireCode(t, err, domainerrors.CodeValidation)
	assert.Contains(t, fieldDetails(t, de), "page")
	assert.Contains(t, fieldDetails(t, de), "limit")
}

func TestNoteService_UpdateNote(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, tags := env.register(t, "update@example.com")

	note, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Old", Content: "old", TagIDs: []string{tags[0].ID}})
	require.NoError(t, err)

	updated, err := env.notes.UpdateNote(ctx, user.ID, note.ID, UpdateNoteRequest{
		Title:      ptr("New"),
		IsFavorite: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "old", updated.Content)
	assert.True(t, updated.IsFavorite)
	assert.Len(t, updated.Tags, 1)
	assert.True(t, updated.UpdatedAt.After(note.UpdatedAt))

	updated, err = env.notes.UpdateNote(ctx, user.ID, note.ID, UpdateNoteRequest{TagIDs: []string{tags[2].ID, tags[3].ID}})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 2)
	assert.Equal(t, tags[2].ID, updated.Tags[0].ID)

	updated, err = env.notes.UpdateNote(ctx, user.ID, note.ID, UpdateNoteRequest{TagIDs: []string{}})
	require.NoError(t, err)
	assert.Empty(t, updated.Tags)

	updated, err = env.notes.UpdateNote(ctx, user.ID, note.ID, UpdateNoteRequest{
		Content:       ptr("<p><strong>bold</strong></p>"),
		ContentFormat: markdown.FormatHTML,
	})
	require.NoError(t, err)
	assert.Equal(t, "**bold**", updated.Content)

	_, err = env.notes.UpdateNote(ctx, user.ID, note.ID, UpdateNoteRequest{Title: ptr("")})
	de := requireCode(t, err, domainerrors.CodeValidation)
	assert.Contains(t, fieldDetails(t, de), "title")
}

func TestNoteService_DeleteNote(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "delete@example.com")

	note, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Bye", Content: "c"})
	require.NoError(t, err)

	deleted, err := env.notes.DeleteNote(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.ID, deleted.ID)

	_, err = env.notes.GetNote(ctx, user.ID, note.ID)
	requireCode(t, err, domainerrors.CodeNotFound)

	_, err = env.notes.DeleteNote(ctx, user.ID, note.ID)
	requireCode(t, err, domainerrors.CodeNotFound)

	assert.Equal(t, 1.0, counterValue(t, env, "notes_operations_total", map[string]string{"operation": "delete", "status": "failure"}))
}

func TestNoteService_Toggles(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	user, _ := env.register(t, "toggle@example.com")

	note, err := env.notes.CreateNote(ctx, user.ID, CreateNoteRequest{Title: "Flip", Content: "c"})
	require.NoError(t, err)

	got, err := env.notes.ArchiveNote(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	got, err = env.notes.ArchiveNote(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, got.IsArchived, "archive is a true toggle")

	got, err = env.notes.ToggleFavorite(ctx, user.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFavorite)
	assert.False(t, got.IsArchived)
}

func TestDedupe(t *testing.T) {
	assert.Nil(t, dedupe(nil))
	assert.Equal(t, []string{}, dedupe([]string{}))
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
}
