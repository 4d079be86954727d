package postgres

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrConflict wraps unique-constraint violations so callers can map them to
// a conflict response without inspecting driver errors
var ErrConflict = errors.New("conflict")

// isUniqueViolation reports whether err is a unique-constraint violation.
// With TranslateError enabled GORM surfaces gorm.ErrDuplicatedKey; the
// lib/pq and message checks cover connections that bypass the translator
// (and the SQLite database used by the test suites).
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
