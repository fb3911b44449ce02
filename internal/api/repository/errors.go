package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound normalizes gorm's record-not-found across repositories.
var ErrNotFound = gorm.ErrRecordNotFound

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505). The database index is the arbiter for
// concurrent duplicate writes; callers translate this into a validation
// error, never a crash.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
