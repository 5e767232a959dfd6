package repository

import (
	"context"
	"fmt"
	"time"

	"moviewatch/internal/models"
	"moviewatch/internal/rowstore"
)

// DefaultUsersTable is the table id used by the mobile client.
const DefaultUsersTable = "users"

// UserRowStore is the Directory driver backed by a hosted row-store. The row
// id equals the user id.
//
// The store has no compare-and-swap, so Update reads the row, compares the
// version and then writes. That narrows the lost-update window without
// closing it.
//
// Create and Update always write a "version" integer attribute. Tables created
// by the mobile client lack it and need the column added (integer, default 1)
// before this driver can write to them; rows without it read as version 1.
type UserRowStore struct {
	client rowstore.Client
	table  string
}

var _ Directory = (*UserRowStore)(nil)

func NewUserRowStore(client rowstore.Client, table string) *UserRowStore {
	if table == "" {
		table = DefaultUsersTable
	}
	return &UserRowStore{client: client, table: table}
}

// userRow is the stored shape of a user.
type userRow struct {
	RowID        string   `json:"$id,omitempty"`
	CreatedAt    string   `json:"$createdAt,omitempty"`
	UpdatedAt    string   `json:"$updatedAt,omitempty"`
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	MovieIDs     []string `json:"movieIds"`
	Version      int64    `json:"version"`
}

func (r userRow) toModel() models.User {
	u := models.User{
		ID:           r.UserID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		MovieIDs:     r.MovieIDs,
		Version:      r.Version,
		CreatedAt:    parseRowTime(r.CreatedAt),
		UpdatedAt:    parseRowTime(r.UpdatedAt),
	}
	if u.ID == "" {
		u.ID = r.RowID
	}
	if u.MovieIDs == nil {
		u.MovieIDs = []string{}
	}
	// rows written before versioning behave as version 1
	if u.Version == 0 {
		u.Version = 1
	}
	return u
}

func parseRowTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func (s *UserRowStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email", email)
}

func (s *UserRowStore) FindByID(ctx context.Context, userID string) (*models.User, error) {
	return s.findOne(ctx, "userId", userID)
}

// findOne returns the first matching row. Duplicate emails are possible when
// two signups race, in which case the first row wins.
func (s *UserRowStore) findOne(ctx context.Context, field, value string) (*models.User, error) {
	list, err := s.client.ListRows(ctx, s.table, rowstore.Equal(field, value))
	if err != nil {
		return nil, fmt.Errorf("select user by %s %q: %w", field, value, err)
	}
	if list.Total == 0 || len(list.Rows) == 0 {
		return nil, nil
	}

	var row userRow
	if err := list.Rows[0].Decode(&row); err != nil {
		return nil, fmt.Errorf("decode user row: %w", err)
	}
	u := row.toModel()
	return &u, nil
}

func (s *UserRowStore) Create(ctx context.Context, u models.User) (models.User, error) {
	if u.MovieIDs == nil {
		u.MovieIDs = []string{}
	}
	if u.Version == 0 {
		u.Version = 1
	}
	data := map[string]any{
		"userId":       u.ID,
		"username":     u.Username,
		"email":        u.Email,
		"passwordHash": u.PasswordHash,
		"movieIds":     u.MovieIDs,
		"version":      u.Version,
	}

	created, err := s.client.CreateRow(ctx, s.table, u.ID, data)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", u.ID, err)
	}

	var row userRow
	if err := created.Decode(&row); err != nil {
		return models.User{}, fmt.Errorf("decode user row: %w", err)
	}
	out := row.toModel()
	if out.Email == "" {
		// some deployments echo only system attributes
		out.Username, out.Email, out.PasswordHash, out.MovieIDs = u.Username, u.Email, u.PasswordHash, u.MovieIDs
	}
	return out, nil
}

func (s *UserRowStore) Update(ctx context.Context, userID string, patch models.UserPatch) (models.User, error) {
	current, err := s.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if current == nil {
		return models.User{}, fmt.Errorf("update user %q: %w", userID, models.ErrNotFound)
	}
	if patch.MovieIDs == nil {
		return *current, nil
	}
	if patch.ExpectedVersion != 0 && patch.ExpectedVersion != current.Version {
		return models.User{}, fmt.Errorf("update user %q: stale version %d (current %d): %w",
			userID, patch.ExpectedVersion, current.Version, models.ErrConflict)
	}

	data := map[string]any{
		"movieIds": patch.MovieIDs,
		"version":  current.Version + 1,
	}
	updated, err := s.client.UpdateRow(ctx, s.table, userID, data)
	if err != nil {
		return models.User{}, fmt.Errorf("update user %q: %w", userID, err)
	}

	var row userRow
	if err := updated.Decode(&row); err != nil {
		return models.User{}, fmt.Errorf("decode user row: %w", err)
	}
	out := row.toModel()
	if out.Email == "" {
		out = *current
	}
	out.MovieIDs = patch.MovieIDs
	out.Version = current.Version + 1
	return out, nil
}
