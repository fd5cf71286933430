package repositories

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when creating a row whose key is already taken.
var ErrDuplicate = errors.New("already exists")

// ErrItemNotFound is returned when an invoice references an item code that does not exist.
// It wraps ErrNotFound.
var ErrItemNotFound = fmt.Errorf("item %w", ErrNotFound)

// ErrPersonNotFound is returned when an invoice names an unknown payer or payee.
var ErrPersonNotFound = fmt.Errorf("person %w", ErrNotFound)

// ErrReferenced is returned when deleting a row that an invoice still points at.
var ErrReferenced = errors.New("still referenced by an invoice")

// ErrCodeSpaceExhausted is returned when no free item code was found.
var ErrCodeSpaceExhausted = errors.New("no free item code")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
