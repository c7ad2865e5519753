package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookwise/api/internal/models"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, user_id, refresh_token_hash, ip_address, user_agent, device_label, os_label, browser_label, revoked, expires_at, created_at`

func (r *SessionRepository) Create(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (
			id, user_id, refresh_token_hash, ip_address, user_agent, device_label, os_label, browser_label, revoked, expires_at, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, FALSE, $9, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		session.IPAddress,
		session.UserAgent,
		session.DeviceLabel,
		session.OSLabel,
		session.BrowserLabel,
		session.ExpiresAt,
	)
	return translateConstraint(err)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *SessionRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE refresh_token_hash = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, hash))
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.Session, error) {
	const query = `SELECT ` + sessionColumns + ` FROM sessions WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Revoke flips the revoked flag for the session owning this refresh-token
// hash and returns the affected row.
func (r *SessionRepository) Revoke(ctx context.Context, hash string) (models.Session, error) {
	const query = `
		UPDATE sessions SET revoked = TRUE WHERE refresh_token_hash = $1
		RETURNING ` + sessionColumns

	return r.scanOne(r.pool.QueryRow(ctx, query, hash))
}

func (r *SessionRepository) RevokeByID(ctx context.Context, id string) error {
	const query = `UPDATE sessions SET revoked = TRUE WHERE id = $1`

	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// PurgeStale removes sessions whose expiry lies before the cutoff. Revoked
// rows are kept until then too, so the audit trail outlives the revocation
// by the retention window. Run from the maintenance job, never from the
// auth flows.
func (r *SessionRepository) PurgeStale(ctx context.Context, expiredBefore time.Time) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at < $1`

	cmd, err := r.pool.Exec(ctx, query, expiredBefore)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SessionRepository) scanOne(row pgx.Row) (models.Session, error) {
	var session models.Session
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshTokenHash,
		&session.IPAddress,
		&session.UserAgent,
		&session.DeviceLabel,
		&session.OSLabel,
		&session.BrowserLabel,
		&session.Revoked,
		&session.ExpiresAt,
		&session.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, err
	}
	return session, nil
}
