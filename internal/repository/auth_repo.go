package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"moviewatch/internal/models"
)

// UserRepository is the sqlite Directory driver.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// Ensure implementation of Directory interface at compile time.
var _ Directory = (*UserRepository)(nil)

const (
	userColumns = `user_id, username, email, password_hash, movie_ids, version, created_at, updated_at`

	insertUserSQL        = `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	selectUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	selectUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE user_id = ?`
	updateMovieIDsSQL    = `UPDATE users SET movie_ids = ?, version = version + 1, updated_at = ? WHERE user_id = ? AND (? = 0 OR version = ?)`
)

// Create inserts a new user. A duplicate user_id or email yields models.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, u models.User) (models.User, error) {
	now := r.now().UTC().Truncate(time.Millisecond)
	if u.MovieIDs == nil {
		u.MovieIDs = []string{}
	}
	if u.Version == 0 {
		u.Version = 1
	}
	u.CreatedAt, u.UpdatedAt = now, now

	ids, err := json.Marshal(u.MovieIDs)
	if err != nil {
		return models.User{}, fmt.Errorf("encode movie ids for %q: %w", u.ID, err)
	}

	_, err = r.db.ExecContext(ctx, insertUserSQL,
		u.ID, u.Username, u.Email, u.PasswordHash, string(ids), u.Version, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, fmt.Errorf("insert user %q: %w", u.ID, models.ErrConflict)
		}
		return models.User{}, fmt.Errorf("insert user %q: %w", u.ID, err)
	}
	return u, nil
}

// FindByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// FindByID fetches a user by user id. Returns (nil, nil) if not found.
func (r *UserRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, userID))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", userID, err)
	}
	return u, nil
}

// Update replaces the saved movie list when the stored version still equals
// patch.ExpectedVersion, then bumps the version.
func (r *UserRepository) Update(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	if patch.MovieIDs == nil {
		u, err := r.FindByID(ctx, userID)
		if err != nil {
			return models.User{}, err
		}
		if u == nil {
			return models.User{}, fmt.Errorf("update user %q: %w", userID, models.ErrNotFound)
		}
		return *u, nil
	}

	ids, err := json.Marshal(patch.MovieIDs)
	if err != nil {
		return models.User{}, fmt.Errorf("encode movie ids for %q: %w", userID, err)
	}

	res, err := r.db.ExecContext(ctx, updateMovieIDsSQL,
		string(ids), r.now().UTC().UnixMilli(), userID, patch.ExpectedVersion, patch.ExpectedVersion)
	if err != nil {
		return models.User{}, fmt.Errorf("update user %q: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.User{}, fmt.Errorf("rows affected for user %q: %w", userID, err)
	}

	u, err := r.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	switch {
	case u == nil:
		return models.User{}, fmt.Errorf("update user %q: %w", userID, models.ErrNotFound)
	case n == 0:
		return models.User{}, fmt.Errorf("update user %q: stale version %d (current %d): %w",
			userID, patch.ExpectedVersion, u.Version, models.ErrConflict)
	}
	return *u, nil
}

// scanUser maps one row. sql.ErrNoRows becomes (nil, nil).
func scanUser(row *sql.Row) (*models.User, error) {
	var (
		u                models.User
		ids              string
		created, updated int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &ids, &u.Version, &created, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal([]byte(ids), &u.MovieIDs); err != nil {
		return nil, fmt.Errorf("decode movie ids: %w", err)
	}
	if u.MovieIDs == nil {
		u.MovieIDs = []string{}
	}
	u.CreatedAt = time.UnixMilli(created).UTC()
	u.UpdatedAt = time.UnixMilli(updated).UTC()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
