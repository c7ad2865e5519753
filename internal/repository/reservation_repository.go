package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, book_id, user_id, status, created_at, expires_at`

func (r *ReservationRepository) Create(ctx context.Context, reservation models.Reservation) error {
	const query = `
		INSERT INTO reservations (id, book_id, user_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, NOW(), $5)
	`
	_, err := r.pool.Exec(ctx, query,
		reservation.ID,
		reservation.BookID,
		reservation.UserID,
		reservation.Status,
		reservation.ExpiresAt,
	)
	return translateConstraint(err)
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (models.Reservation, error) {
	const query = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *ReservationRepository) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	const query = `UPDATE reservations SET status = $2 WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// FindPendingByUserAndBook backs the one-pending-reservation-per-book rule.
func (r *ReservationRepository) FindPendingByUserAndBook(ctx context.Context, userID string, bookID string) (models.Reservation, error) {
	const query = `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE user_id = $1 AND book_id = $2 AND status = 'PENDING'
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID, bookID))
}

// OldestPendingForBook returns the next reservation in line for a book.
func (r *ReservationRepository) OldestPendingForBook(ctx context.Context, bookID string) (models.Reservation, error) {
	const query = `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE book_id = $1 AND status = 'PENDING'
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, bookID))
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	const query = `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE user_id = $1 ORDER BY created_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *ReservationRepository) ListByBook(ctx context.Context, bookID string) ([]models.Reservation, error) {
	const query = `
		SELECT ` + reservationColumns + ` FROM reservations
		WHERE book_id = $1 ORDER BY created_at
	`
	return r.list(ctx, query, bookID)
}

// ExpirePending flips PENDING reservations past their expiry and returns the
// affected rows.
func (r *ReservationRepository) ExpirePending(ctx context.Context, now time.Time) ([]models.Reservation, error) {
	const query = `
		UPDATE reservations SET status = 'EXPIRED'
		WHERE status = 'PENDING' AND expires_at < $1
		RETURNING ` + reservationColumns

	return r.list(ctx, query, now)
}

func (r *ReservationRepository) list(ctx context.Context, query string, args ...any) ([]models.Reservation, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []models.Reservation
	for rows.Next() {
		reservation, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepository) scanOne(row pgx.Row) (models.Reservation, error) {
	var reservation models.Reservation
	if err := row.Scan(
		&reservation.ID,
		&reservation.BookID,
		&reservation.UserID,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.ExpiresAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Reservation{}, ErrReservationNotFound
		}
		return models.Reservation{}, err
	}
	return reservation, nil
}
