package models

import "errors"

// Error kinds shared by every layer. Concrete errors wrap one of these so
// callers can branch with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrAuth       = errors.New("authentication failed")
	ErrTransport  = errors.New("transport failure")
)
