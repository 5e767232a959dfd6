package service

import (
	"errors"
	"fmt"

	"moviewatch/internal/models"
)

// Validation failures. Each wraps models.ErrValidation.
var (
	ErrNameRequired     = fmt.Errorf("name is required: %w", models.ErrValidation)
	ErrEmailRequired    = fmt.Errorf("email is required: %w", models.ErrValidation)
	ErrPasswordRequired = fmt.Errorf("password is required: %w", models.ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("please enter a valid email address: %w", models.ErrValidation)
)

// Auth flow outcomes.
var (
	ErrUserNotFound    = fmt.Errorf("user not found: %w", models.ErrNotFound)
	ErrInvalidPassword = fmt.Errorf("incorrect password: %w", models.ErrAuth)
	ErrEmailTaken      = fmt.Errorf("email already registered: %w", models.ErrConflict)
	ErrInvalidToken    = fmt.Errorf("invalid token: %w", models.ErrAuth)
)

var (
	ErrWatchlistUpdate = errors.New("could not update saved movies")
	ErrLookupFailed    = errors.New("movie lookup failed")
)
