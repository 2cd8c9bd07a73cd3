package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsportal/api/internal/models"
)

func sampleBookmark() models.Bookmark {
	return models.Bookmark{
		ID:          "bookmark-1",
		UserID:      "user-1",
		ArticleURL:  "https://news.example.com/story-1",
		ArticleData: json.RawMessage(`{"url":"https://news.example.com/story-1"}`),
	}
}

func TestBookmarkRepositoryUpsert(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookmarkRepository(mock)
	bookmark := sampleBookmark()

	mock.ExpectExec("INSERT INTO bookmarks").
		WithArgs(bookmark.ID, bookmark.UserID, bookmark.ArticleURL, bookmark.ArticleData).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(context.Background(), bookmark))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarkRepositoryUpsertConflictIsNoop(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookmarkRepository(mock)
	bookmark := sampleBookmark()

	// ON CONFLICT DO NOTHING reports zero rows, which is still success.
	mock.ExpectExec("INSERT INTO bookmarks").
		WithArgs(bookmark.ID, bookmark.UserID, bookmark.ArticleURL, bookmark.ArticleData).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.Upsert(context.Background(), bookmark))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarkRepositoryDeleteAbsent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookmarkRepository(mock)

	mock.ExpectExec("DELETE FROM bookmarks").
		WithArgs("user-1", "https://news.example.com/unseen").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "user-1", "https://news.example.com/unseen")
	assert.ErrorIs(t, err, ErrBookmarkNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarkRepositoryListByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewBookmarkRepository(mock)
	bookmark := sampleBookmark()

	rows := pgxmock.NewRows([]string{"id", "user_id", "article_url", "article_data", "created_at"}).
		AddRow(bookmark.ID, bookmark.UserID, bookmark.ArticleURL, bookmark.ArticleData, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM bookmarks").
		WithArgs(bookmark.UserID).
		WillReturnRows(rows)

	list, err := repo.ListByUser(context.Background(), bookmark.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bookmark.ArticleURL, list[0].ArticleURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}
