package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"moviewatch/internal/models"
	"moviewatch/internal/rowstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRowStore is an in-memory rowstore.Client with equality filtering.
type memRowStore struct {
	rows      map[string]map[string]any
	order     []string
	listErr   error
	updates   int
	lastQuery []rowstore.Query
}

func newMemRowStore() *memRowStore {
	return &memRowStore{rows: map[string]map[string]any{}}
}

func toRow(id string, data map[string]any) rowstore.Row {
	row := rowstore.Row{}
	for k, v := range data {
		b, _ := json.Marshal(v)
		row[k] = b
	}
	b, _ := json.Marshal(id)
	row["$id"] = b
	row["$createdAt"] = json.RawMessage(`"2025-03-01T12:00:00.000+00:00"`)
	return row
}

func (m *memRowStore) ListRows(_ context.Context, _ string, queries ...rowstore.Query) (rowstore.RowList, error) {
	m.lastQuery = queries
	if m.listErr != nil {
		return rowstore.RowList{}, m.listErr
	}
	var out rowstore.RowList
	for _, id := range m.order {
		data := m.rows[id]
		match := true
		for _, q := range queries {
			if data[q.Attribute] != q.Values[0] {
				match = false
			}
		}
		if match {
			out.Rows = append(out.Rows, toRow(id, data))
		}
	}
	out.Total = len(out.Rows)
	return out, nil
}

func (m *memRowStore) CreateRow(_ context.Context, _ string, rowID string, data map[string]any) (rowstore.Row, error) {
	if _, ok := m.rows[rowID]; ok {
		return nil, &rowstore.Error{Status: 409, Type: "row_already_exists", Message: "exists"}
	}
	m.rows[rowID] = data
	m.order = append(m.order, rowID)
	return toRow(rowID, data), nil
}

func (m *memRowStore) UpdateRow(_ context.Context, _ string, rowID string, data map[string]any) (rowstore.Row, error) {
	m.updates++
	cur, ok := m.rows[rowID]
	if !ok {
		return nil, &rowstore.Error{Status: 404, Message: "missing"}
	}
	for k, v := range data {
		cur[k] = v
	}
	return toRow(rowID, cur), nil
}

func TestUserRowStore_CreateAndFind(t *testing.T) {
	store := newMemRowStore()
	dir := NewUserRowStore(store, "")
	ctx := context.Background()

	created, err := dir.Create(ctx, models.User{ID: "user_1", Username: "Alice", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, "user_1", created.ID)
	assert.Equal(t, int64(1), created.Version)
	assert.Equal(t, []string{}, created.MovieIDs)

	byEmail, err := dir.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "Alice", byEmail.Username)
	assert.Equal(t, "h", byEmail.PasswordHash)
	assert.False(t, byEmail.CreatedAt.IsZero())
	assert.Equal(t, "email", store.lastQuery[0].Attribute)

	byID, err := dir.FindByID(ctx, "user_1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "userId", store.lastQuery[0].Attribute)

	missing, err := dir.FindByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = dir.Create(ctx, models.User{ID: "user_1", Email: "b@x.com"})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestUserRowStore_UpdateChecksVersion(t *testing.T) {
	store := newMemRowStore()
	dir := NewUserRowStore(store, DefaultUsersTable)
	ctx := context.Background()

	created, err := dir.Create(ctx, models.User{ID: "user_1", Username: "Alice", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	updated, err := dir.Update(ctx, "user_1", models.UserPatch{MovieIDs: []string{"42"}, ExpectedVersion: created.Version})
	require.NoError(t, err)
	assert.Equal(t, []string{"42"}, updated.MovieIDs)
	assert.Equal(t, int64(2), updated.Version)

	_, err = dir.Update(ctx, "user_1", models.UserPatch{MovieIDs: []string{}, ExpectedVersion: created.Version})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Equal(t, 1, store.updates, "stale write must not reach the store")

	_, err = dir.Update(ctx, "ghost", models.UserPatch{MovieIDs: []string{}})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserRowStore_LegacyRowWithoutVersion(t *testing.T) {
	store := newMemRowStore()
	store.rows["user_9"] = map[string]any{
		"userId": "user_9", "username": "Old", "email": "old@x.com", "passwordHash": "$2a$05$abc",
	}
	store.order = append(store.order, "user_9")
	dir := NewUserRowStore(store, "")

	u, err := dir.FindByEmail(context.Background(), "old@x.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(1), u.Version)
	assert.Equal(t, []string{}, u.MovieIDs)
}

func TestUserRowStore_WritesVersionAttribute(t *testing.T) {
	store := newMemRowStore()
	store.rows["user_9"] = map[string]any{
		"userId": "user_9", "username": "Old", "email": "old@x.com", "passwordHash": "$2a$05$abc",
	}
	store.order = append(store.order, "user_9")
	dir := NewUserRowStore(store, "")
	ctx := context.Background()

	_, err := dir.Create(ctx, models.User{ID: "user_1", Username: "Alice", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), store.rows["user_1"]["version"])

	updated, err := dir.Update(ctx, "user_9", models.UserPatch{MovieIDs: []string{"42"}, ExpectedVersion: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
	assert.Equal(t, int64(2), store.rows["user_9"]["version"])
}

func TestUserRowStore_ListError(t *testing.T) {
	store := newMemRowStore()
	store.listErr = errors.New("boom")
	dir := NewUserRowStore(store, "")

	u, err := dir.FindByID(context.Background(), "user_1")
	assert.Error(t, err)
	assert.Nil(t, u)
}
