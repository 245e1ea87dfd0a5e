package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

func insertSettings(ctx context.Context, q querier, st *domain.UserSettings) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, auto_save, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		st.UserID,
		boolToInt(st.AutoSave),
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert settings: %w", err)
	}
	return nil
}

// GetSettings returns the user's settings. Accounts created before settings existed
// get the default row on first read.
func (s *Store) GetSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	st, err := s.getSettings(ctx, s.db, userID)
	if !errors.Is(err, sql.ErrNoRows) {
		return st, err
	}

	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := insertSettings(ctx, s.db, domain.DefaultSettings(userID)); err != nil {
		return nil, err
	}

	st, err = s.getSettings(ctx, s.db, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("settings not found")
	}
	return st, err
}

func (s *Store) getSettings(ctx context.Context, q querier, userID string) (*domain.UserSettings, error) {
	var (
		st                   domain.UserSettings
		autoSave             int
		createdAt, updatedAt string
	)
	err := q.QueryRowContext(ctx, `
		SELECT user_id, auto_save, created_at, updated_at
		FROM user_settings WHERE user_id = ?`, userID,
	).Scan(&st.UserID, &autoSave, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	st.AutoSave = autoSave != 0
	if st.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if st.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &st, nil
}

// UpdateSettings writes the settings row, creating it if needed.
func (s *Store) UpdateSettings(ctx context.Context, st *domain.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, auto_save, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			auto_save = excluded.auto_save,
			updated_at = excluded.updated_at`,
		st.UserID,
		boolToInt(st.AutoSave),
		formatTime(st.CreatedAt),
		formatTime(st.UpdatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrNotFound.WithMessage("user not found")
		}
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
