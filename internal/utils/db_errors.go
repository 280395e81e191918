package utils

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation reports whether err comes from a unique index. Drivers
// that do not translate errors are matched on their message.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "sqlstate 23505")
}

// UniqueViolationColumn guesses which column a unique violation is about, so
// callers can report it on the right field. Returns "" when unknown.
func UniqueViolationColumn(err error, columns ...string) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, col := range columns {
		if strings.Contains(msg, col) {
			return col
		}
	}
	return ""
}
