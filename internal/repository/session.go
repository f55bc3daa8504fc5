package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vkarpenko/minibank/internal/model"
)

type SessionRepository interface {
	Replace(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, userID int64) (*model.Session, error)
	DeleteMatching(ctx context.Context, userID int64, otp string) (bool, error)
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *Database
}

func NewSessionRepository(db *Database) SessionRepository {
	return &sessionRepository{db: db}
}

// Replace inserts the session or overwrites the user's existing one. The
// upsert is a single statement, so a concurrent reap pass and a fresh login
// can never leave two rows for the same user.
func (r *sessionRepository) Replace(ctx context.Context, session *model.Session) error {
	query := `INSERT INTO sessions (user_id, otp, created_at) VALUES ($1, $2, $3)
              ON CONFLICT (user_id) DO UPDATE SET otp = EXCLUDED.otp, created_at = EXCLUDED.created_at`
	_, err := r.db.db.ExecContext(ctx, query, session.UserID, session.OTP, session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, userID int64) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT user_id, otp, created_at FROM sessions WHERE user_id = $1`
	err := r.db.db.QueryRowContext(ctx, query, userID).Scan(&session.UserID, &session.OTP, &session.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return session, nil
}

// DeleteMatching removes the session only when the stored code matches and
// reports whether a row was removed.
func (r *sessionRepository) DeleteMatching(ctx context.Context, userID int64, otp string) (bool, error) {
	query := `DELETE FROM sessions WHERE user_id = $1 AND otp = $2`
	result, err := r.db.db.ExecContext(ctx, query, userID, otp)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE created_at < $1`
	result, err := r.db.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
