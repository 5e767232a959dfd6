package repository

import (
	"context"
	"database/sql"

	"moviewatch/internal/models"
	"moviewatch/internal/rowstore"
)

// Directory is the user directory. Lookups return (nil, nil) when no row matches.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, userID string, patch models.UserPatch) (models.User, error)
}

type Repository struct {
	Users Directory
}

// NewRepository builds the sqlite-backed repository set.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users: NewUserRepository(db),
	}
}

// NewRowStoreRepository builds the repository set on top of a hosted row-store.
func NewRowStoreRepository(client rowstore.Client, usersTable string) *Repository {
	return &Repository{
		Users: NewUserRowStore(client, usersTable),
	}
}
