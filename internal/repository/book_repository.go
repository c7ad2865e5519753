package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = `id, title, isbn, description, cover_url, published_year, page_count, created_at, updated_at`

func (r *BookRepository) Create(ctx context.Context, book models.Book) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		INSERT INTO books (id, title, isbn, description, cover_url, published_year, page_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	if _, err := tx.Exec(ctx, query,
		book.ID,
		book.Title,
		book.ISBN,
		book.Description,
		book.CoverURL,
		book.PublishedYear,
		book.PageCount,
	); err != nil {
		return translateConstraint(err)
	}

	if err := r.replaceJoins(ctx, tx, book); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *BookRepository) Update(ctx context.Context, book models.Book) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const query = `
		UPDATE books SET title = $2, isbn = $3, description = $4, cover_url = $5,
			published_year = $6, page_count = $7, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := tx.Exec(ctx, query,
		book.ID,
		book.Title,
		book.ISBN,
		book.Description,
		book.CoverURL,
		book.PublishedYear,
		book.PageCount,
	)
	if err != nil {
		return translateConstraint(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookNotFound
	}

	for _, table := range []string{"book_authors", "book_categories", "book_publishers"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE book_id = $1`, book.ID); err != nil {
			return err
		}
	}
	if err := r.replaceJoins(ctx, tx, book); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *BookRepository) replaceJoins(ctx context.Context, tx pgx.Tx, book models.Book) error {
	for _, authorID := range book.AuthorIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO book_authors (book_id, author_id) VALUES ($1, $2)`, book.ID, authorID); err != nil {
			return translateConstraint(err)
		}
	}
	for _, categoryID := range book.CategoryIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO book_categories (book_id, category_id) VALUES ($1, $2)`, book.ID, categoryID); err != nil {
			return translateConstraint(err)
		}
	}
	for _, publisherID := range book.PublisherIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO book_publishers (book_id, publisher_id) VALUES ($1, $2)`, book.ID, publisherID); err != nil {
			return translateConstraint(err)
		}
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (models.Book, error) {
	const query = `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var book models.Book
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID,
		&book.Title,
		&book.ISBN,
		&book.Description,
		&book.CoverURL,
		&book.PublishedYear,
		&book.PageCount,
		&book.CreatedAt,
		&book.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Book{}, ErrBookNotFound
		}
		return models.Book{}, err
	}

	if err := r.loadJoins(ctx, &book); err != nil {
		return models.Book{}, err
	}
	return book, nil
}

func (r *BookRepository) loadJoins(ctx context.Context, book *models.Book) error {
	joins := []struct {
		query string
		dst   *[]string
	}{
		{`SELECT author_id FROM book_authors WHERE book_id = $1`, &book.AuthorIDs},
		{`SELECT category_id FROM book_categories WHERE book_id = $1`, &book.CategoryIDs},
		{`SELECT publisher_id FROM book_publishers WHERE book_id = $1`, &book.PublisherIDs},
	}

	for _, join := range joins {
		rows, err := r.pool.Query(ctx, join.query, book.ID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			*join.dst = append(*join.dst, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

type BookSearch struct {
	Query       string
	AuthorID    string
	CategoryID  string
	Limit       int
	Offset      int
}

// Search lists books with the derived availability aggregate: total copies,
// copies currently AVAILABLE, and the average rating.
func (r *BookRepository) Search(ctx context.Context, search BookSearch) ([]models.BookSummary, error) {
	const query = `
		SELECT b.id, b.title, b.isbn, b.description, b.cover_url, b.published_year, b.page_count,
			b.created_at, b.updated_at,
			COUNT(DISTINCT c.id) AS total_copies,
			COUNT(DISTINCT c.id) FILTER (WHERE c.status = 'AVAILABLE') AS available_copies,
			AVG(rt.value) AS average_rating
		FROM books b
		LEFT JOIN book_copies c ON c.book_id = b.id
		LEFT JOIN ratings rt ON rt.book_id = b.id
		WHERE ($1 = '' OR b.title ILIKE '%' || $1 || '%')
			AND ($2 = '' OR EXISTS (
				SELECT 1 FROM book_authors ba WHERE ba.book_id = b.id AND ba.author_id = $2))
			AND ($3 = '' OR EXISTS (
				SELECT 1 FROM book_categories bc WHERE bc.book_id = b.id AND bc.category_id = $3))
		GROUP BY b.id
		ORDER BY b.title
		LIMIT $4 OFFSET $5
	`

	rows, err := r.pool.Query(ctx, query,
		search.Query,
		search.AuthorID,
		search.CategoryID,
		search.Limit,
		search.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []models.BookSummary
	for rows.Next() {
		var summary models.BookSummary
		if err := rows.Scan(
			&summary.ID,
			&summary.Title,
			&summary.ISBN,
			&summary.Description,
			&summary.CoverURL,
			&summary.PublishedYear,
			&summary.PageCount,
			&summary.CreatedAt,
			&summary.UpdatedAt,
			&summary.TotalCopies,
			&summary.AvailableCopies,
			&summary.AverageRating,
		); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM books WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookNotFound
	}
	return nil
}
