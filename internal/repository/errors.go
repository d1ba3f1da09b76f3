// Package repository implements data access on top of database/sql.
// Sentinel errors defined here let handlers map failure scenarios to
// HTTP status codes without inspecting driver errors.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a looked-up row does not exist. Handlers
// translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique constraint,
// such as saving the same content to a watchlist twice. Handlers
// translate it into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL reports error 1062; SQLite (used by the tests) reports
// "UNIQUE constraint failed".
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
