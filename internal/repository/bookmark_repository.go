package repository

import (
	"context"
	"errors"

	"newsportal/api/internal/models"
)

var ErrBookmarkNotFound = errors.New("bookmark not found")

type BookmarkRepository struct {
	db DB
}

func NewBookmarkRepository(db DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error) {
	const query = `
		SELECT id, user_id, article_url, article_data, created_at
		FROM bookmarks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.ArticleURL, &b.ArticleData, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// Upsert inserts a bookmark if the user has not saved the article yet.
// Re-saving an existing bookmark is a no-op, never an error.
func (r *BookmarkRepository) Upsert(ctx context.Context, bookmark models.Bookmark) error {
	const query = `
		INSERT INTO bookmarks (id, user_id, article_url, article_data, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, article_url) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query,
		bookmark.ID,
		bookmark.UserID,
		bookmark.ArticleURL,
		bookmark.ArticleData,
	)
	return err
}

func (r *BookmarkRepository) Delete(ctx context.Context, userID string, articleURL string) error {
	const query = `DELETE FROM bookmarks WHERE user_id = $1 AND article_url = $2`
	cmd, err := r.db.Exec(ctx, query, userID, articleURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookmarkNotFound
	}
	return nil
}
