package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type PublisherRepository struct {
	pool *pgxpool.Pool
}

func NewPublisherRepository(pool *pgxpool.Pool) *PublisherRepository {
	return &PublisherRepository{pool: pool}
}

const publisherColumns = `id, name, website, image_url, created_at, updated_at`

func (r *PublisherRepository) Create(ctx context.Context, publisher models.Publisher) error {
	const query = `
		INSERT INTO publishers (id, name, website, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, publisher.ID, publisher.Name, publisher.Website, publisher.ImageURL)
	return err
}

func (r *PublisherRepository) GetByID(ctx context.Context, id string) (models.Publisher, error) {
	const query = `SELECT ` + publisherColumns + ` FROM publishers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PublisherRepository) List(ctx context.Context, limit int, offset int) ([]models.Publisher, error) {
	const query = `SELECT ` + publisherColumns + ` FROM publishers ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var publishers []models.Publisher
	for rows.Next() {
		publisher, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, publisher)
	}
	return publishers, rows.Err()
}

func (r *PublisherRepository) Update(ctx context.Context, publisher models.Publisher) error {
	const query = `
		UPDATE publishers SET name = $2, website = $3, image_url = $4, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, publisher.ID, publisher.Name, publisher.Website, publisher.ImageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPublisherNotFound
	}
	return nil
}

func (r *PublisherRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM publishers WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPublisherNotFound
	}
	return nil
}

func (r *PublisherRepository) scanOne(row pgx.Row) (models.Publisher, error) {
	var publisher models.Publisher
	if err := row.Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Website,
		&publisher.ImageURL,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Publisher{}, ErrPublisherNotFound
		}
		return models.Publisher{}, err
	}
	return publisher, nil
}
