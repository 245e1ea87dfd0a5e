package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/id"
	"github.com/notesapp/notes-server/internal/store"
)

// linkTags creates one note_tags row per distinct tag id. A tag id that does not belong
// to ownerID fails the whole call with store.ErrInvalidReference.
func linkTags(ctx context.Context, q querier, noteID, ownerID string, tagIDs []string, at time.Time) error {
	seen := make(map[string]struct{}, len(tagIDs))
	for _, tagID := range tagIDs {
		if _, dup := seen[tagID]; dup {
			continue
		}
		seen[tagID] = struct{}{}

		linkID, err := id.Generate(id.NoteTag)
		if err != nil {
			return err
		}

		// The SELECT yields no row for unknown or foreign tags, so nothing is inserted.
		res, err := q.ExecContext(ctx, `
			INSERT INTO note_tags (id, note_id, tag_id, created_at)
			SELECT ?, ?, id, ? FROM tags WHERE id = ? AND owner_id = ?`,
			linkID, noteID, formatTime(at), tagID, ownerID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return fmt.Errorf("link tag: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return store.ErrInvalidReference.WithMessage(fmt.Sprintf("unknown tag %q", tagID))
		}
	}
	return nil
}

// tagsForNotes loads the tags of each note, in link order.
func tagsForNotes(ctx context.Context, q querier, noteIDs []string) (map[string][]domain.Tag, error) {
	out := make(map[string][]domain.Tag, len(noteIDs))
	if len(noteIDs) == 0 {
		return out, nil
	}

	args := make([]any, len(noteIDs))
	for i, nid := range noteIDs {
		args[i] = nid
	}

	rows, err := q.QueryContext(ctx, `
		SELECT nt.note_id, t.id, t.name, t.color, t.owner_id, t.created_at
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id IN (`+placeholders(len(noteIDs))+`)
		ORDER BY nt.rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("load note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			noteID    string
			t         domain.Tag
			createdAt string
		)
		if err := rows.Scan(&noteID, &t.ID, &t.Name, &t.Color, &t.OwnerID, &createdAt); err != nil {
			return nil, err
		}
		if t.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out[noteID] = append(out[noteID], t)
	}
	return out, rows.Err()
}
