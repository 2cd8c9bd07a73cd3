package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsportal/api/internal/models"
)

func TestAttemptRepositoryRecord(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAttemptRepository(mock)

	attempt := models.FailedAttempt{ID: "attempt-1", UserID: "user-1", Timestamp: time.Now()}

	mock.ExpectExec("INSERT INTO failed_attempts").
		WithArgs(attempt.ID, attempt.UserID, attempt.Timestamp).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Record(context.Background(), attempt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryCountByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAttemptRepository(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryOldestTimestamp(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAttemptRepository(mock)

	oldest := time.Now().Add(-time.Minute).Truncate(time.Second)
	mock.ExpectQuery("SELECT timestamp FROM failed_attempts").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"timestamp"}).AddRow(oldest))

	got, err := repo.OldestTimestamp(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(oldest))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryOldestTimestampNone(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAttemptRepository(mock)

	mock.ExpectQuery("SELECT timestamp FROM failed_attempts").
		WithArgs("user-1").
		WillReturnRows(pgxmock.NewRows([]string{"timestamp"}))

	got, err := repo.OldestTimestamp(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptRepositoryDeleteByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewAttemptRepository(mock)

	mock.ExpectExec("DELETE FROM failed_attempts").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	require.NoError(t, repo.DeleteByUser(context.Background(), "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
