package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// tagColumns must match the scan order in scanTag.
const tagColumns = `id, name, color, owner_id, created_at`

func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)

	if err := scanner.Scan(&t.ID, &t.Name, &t.Color, &t.OwnerID, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTags inserts tags in one transaction; either all are stored or none.
// Returns store.ErrAlreadyExists if any name is taken for its owner.
func (s *Store) CreateTags(ctx context.Context, tags ...*domain.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return insertTags(ctx, tx, tags)
	})
}

func insertTags(ctx context.Context, q querier, tags []*domain.Tag) error {
	for _, t := range tags {
		_, err := q.ExecContext(ctx, `
			INSERT INTO tags (`+tagColumns+`)
			VALUES (?, ?, ?, ?, ?)`,
			t.ID,
			t.Name,
			t.Color,
			t.OwnerID,
			formatTime(t.CreatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists.WithMessage(fmt.Sprintf("tag %q already exists", t.Name))
			}
			return fmt.Errorf("insert tag: %w", err)
		}
	}
	return nil
}

// ListTags returns the owner's tags ordered by name.
func (s *Store) ListTags(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE owner_id = ? ORDER BY name ASC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
