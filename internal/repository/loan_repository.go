package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type LoanRepository struct {
	pool *pgxpool.Pool
}

func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, copy_id, user_id, status, borrowed_at, due_at, returned_at`

func (r *LoanRepository) Create(ctx context.Context, loan models.Loan) error {
	const query = `
		INSERT INTO loans (id, copy_id, user_id, status, borrowed_at, due_at, returned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		loan.ID,
		loan.CopyID,
		loan.UserID,
		loan.Status,
		loan.BorrowedAt,
		loan.DueAt,
		loan.ReturnedAt,
	)
	return translateConstraint(err)
}

func (r *LoanRepository) GetByID(ctx context.Context, id string) (models.Loan, error) {
	const query = `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *LoanRepository) Update(ctx context.Context, loan models.Loan) error {
	const query = `
		UPDATE loans SET status = $2, due_at = $3, returned_at = $4 WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, loan.ID, loan.Status, loan.DueAt, loan.ReturnedAt)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrLoanNotFound
	}
	return nil
}

type LoanFilter struct {
	UserID string
	Status models.LoanStatus
	Limit  int
	Offset int
}

func (r *LoanRepository) List(ctx context.Context, filter LoanFilter) ([]models.Loan, error) {
	const query = `
		SELECT ` + loanColumns + ` FROM loans
		WHERE ($1 = '' OR user_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY borrowed_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, filter.UserID, string(filter.Status), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

// HasActiveLoanForCopy reports whether the copy is tied up in an ACTIVE or
// OVERDUE loan. Used to refuse copy deletion.
func (r *LoanRepository) HasActiveLoanForCopy(ctx context.Context, copyID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM loans WHERE copy_id = $1 AND status IN ('ACTIVE', 'OVERDUE')
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, copyID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// MarkOverdue flips ACTIVE loans past their due date to OVERDUE and returns
// the affected rows so the caller can enqueue notices.
func (r *LoanRepository) MarkOverdue(ctx context.Context, now time.Time) ([]models.Loan, error) {
	const query = `
		UPDATE loans SET status = 'OVERDUE'
		WHERE status = 'ACTIVE' AND due_at < $1
		RETURNING ` + loanColumns

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []models.Loan
	for rows.Next() {
		loan, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func (r *LoanRepository) scanOne(row pgx.Row) (models.Loan, error) {
	var loan models.Loan
	if err := row.Scan(
		&loan.ID,
		&loan.CopyID,
		&loan.UserID,
		&loan.Status,
		&loan.BorrowedAt,
		&loan.DueAt,
		&loan.ReturnedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Loan{}, ErrLoanNotFound
		}
		return models.Loan{}, err
	}
	return loan, nil
}
