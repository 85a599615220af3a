// Package users is the SQLite store for user accounts.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const selectUser = `SELECT id, username, display_name, role, password_hash, password_salt, lang, created_at FROM users`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*models.User, error) {
	var (
		u       models.User
		role    string
		created string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.DisplayName, &role, &u.PasswordHash, &u.PasswordSalt, &u.Lang, &created); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)

	t, err := dbx.ParseTime(created)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

func (r *SQLiteRepository) findOne(ctx context.Context, where, key string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+" WHERE "+where, key)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user[%s]: %w", key, err)
	}
	return u, nil
}

func (r *SQLiteRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username_key = ?", models.UsernameKey(username))
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+" ORDER BY username_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return result, nil
}

// Add inserts user. Usernames that fold to the same key clash and yield
// common.ErrUsernameTaken.
func (r *SQLiteRepository) Add(ctx context.Context, user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, username_key, display_name, role, password_hash, password_salt, lang, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, models.UsernameKey(user.Username), user.DisplayName, string(user.Role),
		user.PasswordHash, user.PasswordSalt, user.Lang, dbx.FormatTime(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrUsernameTaken
		}
		return fmt.Errorf("failed to add user[%s]: %w", user.Username, err)
	}
	return nil
}

// Update applies patch to the stored user and returns the result.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(u)
	if err := u.Validate(); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET display_name = ?, role = ?, password_hash = ?, password_salt = ?
		WHERE id = ?
	`, u.DisplayName, string(u.Role), u.PasswordHash, u.PasswordSalt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user[%s]: %w", id, err)
	}
	if err := dbx.RowsAffectedOne(res, common.ErrUserNotFound); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		return strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}
