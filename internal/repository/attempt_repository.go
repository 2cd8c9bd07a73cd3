package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"newsportal/api/internal/models"
)

type AttemptRepository struct {
	db DB
}

func NewAttemptRepository(db DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

func (r *AttemptRepository) Record(ctx context.Context, attempt models.FailedAttempt) error {
	const query = `
		INSERT INTO failed_attempts (id, user_id, timestamp) VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, attempt.ID, attempt.UserID, attempt.Timestamp)
	return err
}

func (r *AttemptRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM failed_attempts WHERE user_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// OldestTimestamp returns the timestamp of the user's earliest recorded
// failed attempt, or nil when none exist.
func (r *AttemptRepository) OldestTimestamp(ctx context.Context, userID string) (*time.Time, error) {
	const query = `
		SELECT timestamp FROM failed_attempts
		WHERE user_id = $1
		ORDER BY timestamp ASC
		LIMIT 1
	`
	var ts time.Time
	if err := r.db.QueryRow(ctx, query, userID).Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ts, nil
}

func (r *AttemptRepository) DeleteByUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM failed_attempts WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}
