// Package store defines the persistence contract used by the services.
//
// Every note and tag method takes the caller's user id and filters on it, so a row owned
// by someone else is indistinguishable from a missing row (ErrNotFound).
package store

import (
	"context"
	"time"

	"github.com/notesapp/notes-server/internal/domain"
)

// UserStore persists accounts.
type UserStore interface {
	// RegisterUser inserts the user together with its seed tags and settings in one transaction.
	// Returns ErrAlreadyExists when the email is taken.
	RegisterUser(ctx context.Context, user *domain.User, tags []*domain.Tag, settings *domain.UserSettings) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateUser writes name, email, avatar and updated_at. Returns ErrAlreadyExists on an email clash.
	UpdateUser(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) error
}

// TagStore persists per-user tags.
type TagStore interface {
	// CreateTags inserts all tags or none. Returns ErrAlreadyExists on a duplicate (name, owner).
	CreateTags(ctx context.Context, tags ...*domain.Tag) error
	ListTags(ctx context.Context, ownerID string) ([]domain.Tag, error)
}

// NoteStore persists notes and their tag links.
type NoteStore interface {
	// CreateNote inserts the note and one link per tag id in one transaction.
	// Returns ErrInvalidReference if a tag id is not owned by note.OwnerID.
	CreateNote(ctx context.Context, note *domain.Note, tagIDs []string) error
	GetNote(ctx context.Context, id, ownerID string) (*domain.Note, error)
	ListNotes(ctx context.Context, ownerID string, filter domain.NoteFilter, page Page) ([]domain.Note, int, error)
	UpdateNote(ctx context.Context, id, ownerID string, patch domain.NotePatch) (*domain.Note, error)
	DeleteNote(ctx context.Context, id, ownerID string) (*domain.Note, error)
	// ToggleNoteFlag flips one boolean flag atomically and returns the updated note.
	ToggleNoteFlag(ctx context.Context, id, ownerID string, flag domain.NoteFlag) (*domain.Note, error)
}

// SettingsStore persists per-user preferences.
type SettingsStore interface {
	// GetSettings returns the user's settings, creating the default row when absent.
	GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error)
	UpdateSettings(ctx context.Context, settings *domain.UserSettings) error
}

// Store is the full persistence contract.
type Store interface {
	UserStore
	TagStore
	NoteStore
	SettingsStore
	Ping(ctx context.Context) error
	Close() error
}
