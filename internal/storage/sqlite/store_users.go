package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/louisbranch/taskhub/internal/auth/user"
	"github.com/louisbranch/taskhub/internal/storage"
)

// PutUser persists a user record.
func (s *Store) PutUser(ctx context.Context, u user.User) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("user id is required")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		toMillis(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser loads a user record by id.
func (s *Store) GetUser(ctx context.Context, userID string) (user.User, error) {
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users
		 WHERE id = ?`,
		userID,
	)
	return scanUser(row)
}

// GetUserByUsername loads a user record by its unique username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	if s == nil || s.sqlDB == nil {
		return user.User{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, username, email, password_hash, created_at
		 FROM users
		 WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

// UsernameExists reports whether any user holds the given username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.userFieldExists(ctx, "username", username)
}

// EmailExists reports whether any user holds the given email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.userFieldExists(ctx, "email", email)
}

func (s *Store) userFieldExists(ctx context.Context, column, value string) (bool, error) {
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var found int
	row := s.sqlDB.QueryRowContext(ctx, "SELECT 1 FROM users WHERE "+column+" = ?", value)
	if err := row.Scan(&found); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", column, err)
	}
	return true, nil
}

func scanUser(row *sql.Row) (user.User, error) {
	var u user.User
	var createdAt int64
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, storage.ErrNotFound
		}
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = fromMillis(createdAt)
	return u, nil
}
