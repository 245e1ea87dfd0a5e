package domain

import "time"

// Tag is a named, colored label owned by one user. Names are unique per owner.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	OwnerID   string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// MaxTagNameLength bounds tag names, in characters.
const MaxTagNameLength = 50

// NoteTag links a note to a tag. A (NoteID, TagID) pair appears at most once.
type NoteTag struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	TagID     string    `json:"tagId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagSpec is a name and color pair used to seed tags.
type TagSpec struct {
	Name  string
	Color string
}

// DefaultTags is the catalog seeded for every new account.
var DefaultTags = []TagSpec{
	{Name: "Work", Color: "#8B5CF6"},
	{Name: "Urgent", Color: "#EF4444"},
	{Name: "Success", Color: "#10B981"},
	{Name: "Creative", Color: "#FCD34D"},
	{Name: "Learning", Color: "#3B82F6"},
	{Name: "Personal", Color: "#F472B6"},
	{Name: "General", Color: "#6B7280"},
}
