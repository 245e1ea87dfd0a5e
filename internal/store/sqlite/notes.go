package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// noteColumns must match the scan order in scanNote.
const noteColumns = `id, owner_id, title, content, emoji, is_favorite, is_archived, created_at, updated_at`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var (
		n                    domain.Note
		favorite, archived   int
		createdAt, updatedAt string
	)

	err := scanner.Scan(
		&n.ID,
		&n.OwnerID,
		&n.Title,
		&n.Content,
		&n.Emoji,
		&favorite,
		&archived,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.IsFavorite = favorite != 0
	n.IsArchived = archived != 0
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	n.Tags = []domain.Tag{}

	return &n, nil
}

var errNoteNotFound = store.ErrNotFound.WithMessage("note not found")

// CreateNote inserts the note and links it to tagIDs in one transaction.
// note.Tags is filled with the resolved tags on success.
func (s *Store) CreateNote(ctx context.Context, n *domain.Note, tagIDs []string) error {
	var tags []domain.Tag
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notes (`+noteColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID,
			n.OwnerID,
			n.Title,
			n.Content,
			n.Emoji,
			boolToInt(n.IsFavorite),
			boolToInt(n.IsArchived),
			formatTime(n.CreatedAt),
			formatTime(n.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}

		if err := linkTags(ctx, tx, n.ID, n.OwnerID, tagIDs, n.CreatedAt); err != nil {
			return err
		}

		byNote, err := tagsForNotes(ctx, tx, []string{n.ID})
		if err != nil {
			return err
		}
		tags = byNote[n.ID]
		return nil
	})
	if err != nil {
		return err
	}

	n.Tags = orEmpty(tags)
	return nil
}

// GetNote retrieves a note owned by ownerID, with its tags.
// Returns store.ErrNotFound for missing notes and notes owned by someone else.
func (s *Store) GetNote(ctx context.Context, id, ownerID string) (*domain.Note, error) {
	return getNote(ctx, s.db, id, ownerID)
}

func getNote(ctx context.Context, q querier, id, ownerID string) (*domain.Note, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoteNotFound
	}
	if err != nil {
		return nil, err
	}

	byNote, err := tagsForNotes(ctx, q, []string{n.ID})
	if err != nil {
		return nil, err
	}
	n.Tags = orEmpty(byNote[n.ID])
	return n, nil
}

// ListNotes returns one page of the owner's notes matching filter, newest first,
// and the total number of matches. The count and the page read the same snapshot.
func (s *Store) ListNotes(ctx context.Context, ownerID string, filter domain.NoteFilter, page store.Page) ([]domain.Note, int, error) {
	var (
		notes []domain.Note
		total int
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		notes, total, err = listNotes(ctx, tx, ownerID, filter, page)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func listNotes(ctx context.Context, q querier, ownerID string, filter domain.NoteFilter, page store.Page) ([]domain.Note, int, error) {
	where, args := noteWhere(ownerID, filter)

	var total int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notes: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list notes: %w", err)
	}

	notes := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		notes = append(notes, *n)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	if len(notes) == 0 {
		return notes, total, nil
	}

	ids := make([]string, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}
	byNote, err := tagsForNotes(ctx, q, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range notes {
		notes[i].Tags = orEmpty(byNote[notes[i].ID])
	}

	return notes, total, nil
}

// noteWhere builds the conjunctive filter shared by the count and page queries.
func noteWhere(ownerID string, f domain.NoteFilter) (string, []any) {
	clauses := []string{"owner_id = ?"}
	args := []any{ownerID}

	if search := strings.TrimSpace(f.Search); search != "" {
		folded := foldCase(search)
		clauses = append(clauses, "(instr(casefold(title), ?) > 0 OR instr(casefold(content), ?) > 0)")
		args = append(args, folded, folded)
	}
	if f.IsFavorite != nil {
		clauses = append(clauses, "is_favorite = ?")
		args = append(args, boolToInt(*f.IsFavorite))
	}
	if f.IsArchived != nil {
		clauses = append(clauses, "is_archived = ?")
		args = append(args, boolToInt(*f.IsArchived))
	}

	return strings.Join(clauses, " AND "), args
}

// UpdateNote applies patch to the owner's note. UpdatedAt always advances, and a
// non-nil patch.TagIDs replaces the whole tag set in the same transaction.
func (s *Store) UpdateNote(ctx context.Context, id, ownerID string, patch domain.NotePatch) (*domain.Note, error) {
	var updated *domain.Note
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := getNote(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		patch.Apply(n)

		_, err = tx.ExecContext(ctx, `
			UPDATE notes SET title = ?, content = ?, emoji = ?, is_favorite = ?, is_archived = ?, updated_at = ?
			WHERE id = ? AND owner_id = ?`,
			n.Title,
			n.Content,
			n.Emoji,
			boolToInt(n.IsFavorite),
			boolToInt(n.IsArchived),
			formatTime(n.UpdatedAt),
			id,
			ownerID,
		)
		if err != nil {
			return fmt.Errorf("update note: %w", err)
		}

		if patch.TagIDs != nil {
			if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, id); err != nil {
				return fmt.Errorf("clear note tags: %w", err)
			}
			if err := linkTags(ctx, tx, id, ownerID, *patch.TagIDs, n.UpdatedAt); err != nil {
				return err
			}
			byNote, err := tagsForNotes(ctx, tx, []string{id})
			if err != nil {
				return err
			}
			n.Tags = orEmpty(byNote[id])
		}

		updated = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteNote removes the owner's note and returns it as it was. Tag links cascade.
func (s *Store) DeleteNote(ctx context.Context, id, ownerID string) (*domain.Note, error) {
	var deleted *domain.Note
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		n, err := getNote(ctx, tx, id, ownerID)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND owner_id = ?`, id, ownerID)
		if err != nil {
			return fmt.Errorf("delete note: %w", err)
		}
		if err := expectOneRow(res, "note not found"); err != nil {
			return err
		}

		deleted = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ToggleNoteFlag flips flag on the owner's note and returns the updated note.
// The flip happens in SQL, so concurrent toggles never lose an update.
func (s *Store) ToggleNoteFlag(ctx context.Context, id, ownerID string, flag domain.NoteFlag) (*domain.Note, error) {
	var column string
	switch flag {
	case domain.FlagArchived, domain.FlagFavorite:
		column = string(flag)
	default:
		return nil, fmt.Errorf("unknown note flag %q", flag)
	}

	var updated *domain.Note
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE notes SET `+column+` = NOT `+column+`, updated_at = ?
			WHERE id = ? AND owner_id = ?`,
			formatTime(domain.Now()), id, ownerID,
		)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", column, err)
		}
		if err := expectOneRow(res, "note not found"); err != nil {
			return err
		}

		updated, err = getNote(ctx, tx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func orEmpty(tags []domain.Tag) []domain.Tag {
	if tags == nil {
		return []domain.Tag{}
	}
	return tags
}
