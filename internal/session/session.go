// Package session persists the logged-in identity on a device.
package session

import (
	"context"
	"fmt"

	"moviewatch/internal/device"
	"moviewatch/internal/models"
)

// Storage keys, shared with the mobile client.
const (
	KeyUserID   = "userId"
	KeyUsername = "username"
)

// Store saves, loads and clears the device session.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Load(ctx context.Context) (*models.Session, error)
	Clear(ctx context.Context) error
}

// KVStore keeps the session in a device key/value store.
type KVStore struct {
	kv device.KV
}

var _ Store = (*KVStore)(nil)

func NewKVStore(kv device.KV) *KVStore {
	return &KVStore{kv: kv}
}

func (s *KVStore) Save(ctx context.Context, sess models.Session) error {
	if err := s.kv.Set(ctx, KeyUserID, sess.UserID); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUsername, sess.Username); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns nil when no user id is stored.
func (s *KVStore) Load(ctx context.Context) (*models.Session, error) {
	userID, ok, err := s.kv.Get(ctx, KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok || userID == "" {
		return nil, nil
	}
	username, _, err := s.kv.Get(ctx, KeyUsername)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &models.Session{UserID: userID, Username: username}, nil
}

// Clear wipes the whole device store, matching logout on the mobile client.
func (s *KVStore) Clear(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
