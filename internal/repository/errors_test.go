package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateConstraint(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique violation", &pgconn.PgError{Code: "23505", ConstraintName: "ratings_book_id_user_id_key"}, ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503", ConstraintName: "ratings_book_id_fkey"}, ErrReferenceMissing},
		{"wrapped foreign key violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), ErrReferenceMissing},
		{"other pg error", &pgconn.PgError{Code: "23502"}, nil},
		{"plain error", errors.New("connection reset"), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateConstraint(tc.in)
			if tc.want != nil {
				if !errors.Is(got, tc.want) {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
				return
			}
			// Untranslated errors pass through untouched.
			if !errors.Is(got, tc.in) {
				t.Fatalf("got %v, want the original error", got)
			}
		})
	}
}
