package service

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace. Case is preserved: lookups are exact.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func validateLogin(email, password string) error {
	if blank(email) {
		return ErrEmailRequired
	}
	if blank(password) {
		return ErrPasswordRequired
	}
	if !ValidEmail(NormalizeEmail(email)) {
		return ErrInvalidEmail
	}
	return nil
}

func validateSignUp(username, email, password string) error {
	if blank(username) {
		return ErrNameRequired
	}
	return validateLogin(email, password)
}
