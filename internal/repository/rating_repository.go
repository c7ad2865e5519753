package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

const ratingColumns = `id, book_id, user_id, value, comment, created_at, updated_at`

func (r *RatingRepository) Create(ctx context.Context, rating models.Rating) error {
	const query = `
		INSERT INTO ratings (id, book_id, user_id, value, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		rating.ID,
		rating.BookID,
		rating.UserID,
		rating.Value,
		rating.Comment,
	)
	return translateConstraint(err)
}

// UpdateByUserAndBook overwrites the caller's own rating for a book and
// returns the stored row.
func (r *RatingRepository) UpdateByUserAndBook(ctx context.Context, rating models.Rating) (models.Rating, error) {
	const query = `
		UPDATE ratings SET value = $3, comment = $4, updated_at = NOW()
		WHERE user_id = $1 AND book_id = $2
		RETURNING ` + ratingColumns

	return r.scanOne(r.pool.QueryRow(ctx, query, rating.UserID, rating.BookID, rating.Value, rating.Comment))
}

func (r *RatingRepository) ListByBook(ctx context.Context, bookID string) ([]models.Rating, error) {
	const query = `SELECT ` + ratingColumns + ` FROM ratings WHERE book_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		rating, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *RatingRepository) scanOne(row pgx.Row) (models.Rating, error) {
	var rating models.Rating
	if err := row.Scan(
		&rating.ID,
		&rating.BookID,
		&rating.UserID,
		&rating.Value,
		&rating.Comment,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ErrRatingNotFound
		}
		return models.Rating{}, err
	}
	return rating, nil
}
