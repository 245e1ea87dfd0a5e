package domain

// Note is a markdown note owned by a single user.
// IsFavorite and IsArchived are independent flags; every combination is allowed.
type Note struct {
	ID         string `json:"id"`
	OwnerID    string `json:"userId"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Emoji      string `json:"emoji"`
	IsFavorite bool   `json:"isFavorite"`
	IsArchived bool   `json:"isArchived"`
	Timestamps
	Tags []Tag `json:"tags"`
}

// Limits on note fields, counted in characters (runes).
const (
	MaxTitleLength   = 100
	MaxContentLength = 50000
	MaxEmojiLength   = 10
	MaxTagsPerNote   = 10
)

// NotePatch is a partial update. Nil fields are left unchanged; a non-nil TagIDs replaces
// the note's whole tag set (an empty slice clears it).
type NotePatch struct {
	Title      *string
	Content    *string
	Emoji      *string
	IsFavorite *bool
	IsArchived *bool
	TagIDs     *[]string
}

// Apply copies the set scalar fields onto n and refreshes UpdatedAt. Tags are handled by the store.
func (p NotePatch) Apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Emoji != nil {
		n.Emoji = *p.Emoji
	}
	if p.IsFavorite != nil {
		n.IsFavorite = *p.IsFavorite
	}
	if p.IsArchived != nil {
		n.IsArchived = *p.IsArchived
	}
	n.Touch()
}

// NoteFlag names one of the toggleable note flags.
type NoteFlag string

// Toggleable flags.
const (
	FlagArchived NoteFlag = "is_archived"
	FlagFavorite NoteFlag = "is_favorite"
)

// NoteFilter narrows a note listing. Search is a case-insensitive substring of title or content.
type NoteFilter struct {
	Search     string
	IsFavorite *bool
	IsArchived *bool
}
