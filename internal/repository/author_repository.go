package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type AuthorRepository struct {
	pool *pgxpool.Pool
}

func NewAuthorRepository(pool *pgxpool.Pool) *AuthorRepository {
	return &AuthorRepository{pool: pool}
}

const authorColumns = `id, name, bio, image_url, created_at, updated_at`

func (r *AuthorRepository) Create(ctx context.Context, author models.Author) error {
	const query = `
		INSERT INTO authors (id, name, bio, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, author.ID, author.Name, author.Bio, author.ImageURL)
	return err
}

func (r *AuthorRepository) GetByID(ctx context.Context, id string) (models.Author, error) {
	const query = `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *AuthorRepository) List(ctx context.Context, limit int, offset int) ([]models.Author, error) {
	const query = `SELECT ` + authorColumns + ` FROM authors ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		author, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}
	return authors, rows.Err()
}

func (r *AuthorRepository) Update(ctx context.Context, author models.Author) error {
	const query = `
		UPDATE authors SET name = $2, bio = $3, image_url = $4, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, author.ID, author.Name, author.Bio, author.ImageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}

func (r *AuthorRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM authors WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrAuthorNotFound
	}
	return nil
}

func (r *AuthorRepository) scanOne(row pgx.Row) (models.Author, error) {
	var author models.Author
	if err := row.Scan(
		&author.ID,
		&author.Name,
		&author.Bio,
		&author.ImageURL,
		&author.CreatedAt,
		&author.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Author{}, ErrAuthorNotFound
		}
		return models.Author{}, err
	}
	return author, nil
}
