package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, name, slug, created_at, updated_at`

func (r *CategoryRepository) Create(ctx context.Context, category models.Category) error {
	const query = `
		INSERT INTO categories (id, name, slug, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Slug)
	return translateConstraint(err)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	const query = `SELECT ` + categoryColumns + ` FROM categories ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		category, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, category models.Category) error {
	const query = `UPDATE categories SET name = $2, slug = $3, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Slug)
	if err != nil {
		return translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM categories WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) scanOne(row pgx.Row) (models.Category, error) {
	var category models.Category
	if err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, err
	}
	return category, nil
}
