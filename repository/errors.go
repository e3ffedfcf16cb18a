package repository

import (
	"errors"
	"strings"
)

var (
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("username or email already exists")
	// ErrDuplicateFavorite is returned when the (user, song) pair already exists.
	ErrDuplicateFavorite = errors.New("song already in favorites")
)

// isDuplicateEntry reports whether err is a MySQL unique-constraint violation.
func isDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate entry") || strings.Contains(msg, "unique constraint")
}
