package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique constraint violation on
// any supported dialect. gorm only translates the error when the driver has
// translation enabled, so the raw driver messages are matched as well.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key value violates unique constraint"):
		// postgres 23505
		return true
	case strings.Contains(msg, "Error 1062"):
		// mysql ER_DUP_ENTRY
		return true
	case strings.Contains(msg, "UNIQUE constraint failed"):
		// sqlite 2067
		return true
	}
	return false
}
