package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"newsportal/api/internal/models"
)

var (
	ErrReactionNotFound = errors.New("reaction not found")
	ErrReactionExists   = errors.New("reaction already exists")
)

type ReactionRepository struct {
	db DB
}

func NewReactionRepository(db DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

func (r *ReactionRepository) ListByUser(ctx context.Context, userID string) ([]models.Reaction, error) {
	const query = `
		SELECT id, user_id, article_url, type, article_data, created_at, updated_at
		FROM reactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reactions []models.Reaction
	for rows.Next() {
		var re models.Reaction
		if err := rows.Scan(&re.ID, &re.UserID, &re.ArticleURL, &re.Type, &re.ArticleData, &re.CreatedAt, &re.UpdatedAt); err != nil {
			return nil, err
		}
		reactions = append(reactions, re)
	}
	return reactions, rows.Err()
}

func (r *ReactionRepository) Get(ctx context.Context, userID string, articleURL string) (models.Reaction, error) {
	const query = `
		SELECT id, user_id, article_url, type, article_data, created_at, updated_at
		FROM reactions
		WHERE user_id = $1 AND article_url = $2
	`

	var re models.Reaction
	err := r.db.QueryRow(ctx, query, userID, articleURL).
		Scan(&re.ID, &re.UserID, &re.ArticleURL, &re.Type, &re.ArticleData, &re.CreatedAt, &re.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Reaction{}, ErrReactionNotFound
	}
	return re, err
}

// Create inserts a new reaction. A concurrent insert for the same
// (user, article) surfaces as ErrReactionExists via the uniqueness
// constraint; callers retry as an update or delete.
func (r *ReactionRepository) Create(ctx context.Context, reaction models.Reaction) error {
	const query = `
		INSERT INTO reactions (id, user_id, article_url, type, article_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		reaction.ID,
		reaction.UserID,
		reaction.ArticleURL,
		reaction.Type,
		reaction.ArticleData,
	)
	if isUniqueViolation(err) {
		return ErrReactionExists
	}
	return err
}

func (r *ReactionRepository) UpdateType(ctx context.Context, id string, reactionType models.ReactionType) error {
	const query = `
		UPDATE reactions SET type = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query, id, reactionType)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReactionNotFound
	}
	return nil
}

func (r *ReactionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reactions WHERE id = $1`
	cmd, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrReactionNotFound
	}
	return nil
}

// CountsForURLs aggregates up/down totals for the given article urls in one
// grouped query. URLs with no reactions report zero counts.
func (r *ReactionRepository) CountsForURLs(ctx context.Context, urls []string) (map[string]models.ReactionCounts, error) {
	counts := make(map[string]models.ReactionCounts, len(urls))
	for _, url := range urls {
		counts[url] = models.ReactionCounts{}
	}
	if len(urls) == 0 {
		return counts, nil
	}

	const query = `
		SELECT article_url, type, COUNT(*)
		FROM reactions
		WHERE article_url = ANY($1)
		GROUP BY article_url, type
	`

	rows, err := r.db.Query(ctx, query, urls)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			url          string
			reactionType models.ReactionType
			count        int
		)
		if err := rows.Scan(&url, &reactionType, &count); err != nil {
			return nil, err
		}

		c := counts[url]
		switch reactionType {
		case models.ReactionUp:
			c.Up = count
		case models.ReactionDown:
			c.Down = count
		}
		counts[url] = c
	}
	return counts, rows.Err()
}
