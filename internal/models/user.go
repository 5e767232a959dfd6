package models

import "time"

// User is a single account record in the user directory.
type User struct {
	ID           string    `json:"userId"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don’t expose hash
	MovieIDs     []string  `json:"movieIds"`
	Version      int64     `json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HasMovie reports whether movieID is in the user's saved list.
func (u User) HasMovie(movieID string) bool {
	for _, id := range u.MovieIDs {
		if id == movieID {
			return true
		}
	}
	return false
}

// Session returns the identity pair cached on a device after login.
func (u User) Session() Session {
	return Session{UserID: u.ID, Username: u.Username}
}

// UserPatch describes a partial update. Nil fields are left unchanged.
type UserPatch struct {
	MovieIDs        []string
	ExpectedVersion int64 // 0 skips the version check
}

// Session is the locally persisted proof of login.
type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}
