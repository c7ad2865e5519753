package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrAuthorNotFound      = errors.New("author not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrPublisherNotFound   = errors.New("publisher not found")
	ErrBookNotFound        = errors.New("book not found")
	ErrCopyNotFound        = errors.New("copy not found")
	ErrLoanNotFound        = errors.New("loan not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrRatingNotFound      = errors.New("rating not found")

	// ErrDuplicate wraps a unique-constraint violation (email, isbn,
	// barcode, slug, rating pair, refresh-token hash).
	ErrDuplicate = errors.New("duplicate value")

	// ErrReferenceMissing wraps a foreign-key violation: the row being
	// written points at an entity that does not exist.
	ErrReferenceMissing = errors.New("referenced entity not found")
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func translateConstraint(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return ErrDuplicate
		case foreignKeyViolation:
			return ErrReferenceMissing
		}
	}
	return err
}
