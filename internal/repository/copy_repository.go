package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type CopyRepository struct {
	pool *pgxpool.Pool
}

func NewCopyRepository(pool *pgxpool.Pool) *CopyRepository {
	return &CopyRepository{pool: pool}
}

const copyColumns = `id, book_id, barcode, status, condition, created_at, updated_at`

func (r *CopyRepository) Create(ctx context.Context, copy models.BookCopy) error {
	const query = `
		INSERT INTO book_copies (id, book_id, barcode, status, condition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, copy.ID, copy.BookID, copy.Barcode, copy.Status, copy.Condition)
	return translateConstraint(err)
}

func (r *CopyRepository) GetByID(ctx context.Context, id string) (models.BookCopy, error) {
	const query = `SELECT ` + copyColumns + ` FROM book_copies WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *CopyRepository) ListByBook(ctx context.Context, bookID string) ([]models.BookCopy, error) {
	const query = `SELECT ` + copyColumns + ` FROM book_copies WHERE book_id = $1 ORDER BY barcode`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var copies []models.BookCopy
	for rows.Next() {
		copy, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		copies = append(copies, copy)
	}
	return copies, rows.Err()
}

func (r *CopyRepository) Update(ctx context.Context, copy models.BookCopy) error {
	const query = `
		UPDATE book_copies SET barcode = $2, status = $3, condition = $4, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, copy.ID, copy.Barcode, copy.Status, copy.Condition)
	if err != nil {
		return translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCopyNotFound
	}
	return nil
}

func (r *CopyRepository) UpdateStatus(ctx context.Context, id string, status models.CopyStatus) error {
	const query = `UPDATE book_copies SET status = $2, updated_at = NOW() WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCopyNotFound
	}
	return nil
}

func (r *CopyRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM book_copies WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCopyNotFound
	}
	return nil
}

func (r *CopyRepository) scanOne(row pgx.Row) (models.BookCopy, error) {
	var copy models.BookCopy
	if err := row.Scan(
		&copy.ID,
		&copy.BookID,
		&copy.Barcode,
		&copy.Status,
		&copy.Condition,
		&copy.CreatedAt,
		&copy.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.BookCopy{}, ErrCopyNotFound
		}
		return models.BookCopy{}, err
	}
	return copy, nil
}
