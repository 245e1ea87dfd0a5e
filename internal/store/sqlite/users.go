package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/notesapp/notes-server/internal/domain"
	"github.com/notesapp/notes-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, name, email, password_hash, avatar_url, last_login, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		avatar    sql.NullString
		lastLogin string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&avatar,
		&lastLogin,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	if u.LastLogin, err = parseTime(lastLogin); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &u, nil
}

// RegisterUser inserts the user, its seed tags and its settings row atomically.
// Returns store.ErrAlreadyExists when the email is already registered.
func (s *Store) RegisterUser(ctx context.Context, u *domain.User, tags []*domain.Tag, settings *domain.UserSettings) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (`+userColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID,
			u.Name,
			u.Email,
			u.PasswordHash,
			nullString(u.AvatarURL),
			formatTime(u.LastLogin),
			formatTime(u.CreatedAt),
			formatTime(u.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return store.ErrAlreadyExists.WithMessage("email already registered")
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if err := insertTags(ctx, tx, tags); err != nil {
			return err
		}

		if settings != nil {
			if err := insertSettings(ctx, tx, settings); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("user registered", "user_id", u.ID, "tags", len(tags))
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by exact email.
// Returns store.ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("user not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser writes the mutable profile fields.
func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET name = ?, email = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?`,
		u.Name,
		u.Email,
		nullString(u.AvatarURL),
		formatTime(u.UpdatedAt),
		u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists.WithMessage("email already registered")
		}
		return fmt.Errorf("update user: %w", err)
	}
	return expectOneRow(res, "user not found")
}

// UpdateLastLogin records a successful login.
func (s *Store) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, formatTime(at), id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return expectOneRow(res, "user not found")
}

// DeleteUser removes the user. Notes, tags, links and settings cascade.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return expectOneRow(res, "user not found")
}

func expectOneRow(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage(notFound)
	}
	return nil
}
