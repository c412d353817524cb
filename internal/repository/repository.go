package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrConflict is returned when an insert trips a uniqueness constraint
// (a second live ad for the same owner, or a colliding promo code).
// Services map it to their domain-specific validation errors.
var ErrConflict = errors.New("unique constraint conflict")

func isConflict(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
