package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"newsportal/api/internal/ids"
	"newsportal/api/internal/models"
	"newsportal/api/internal/repository"
)

// ReactionOutcome says what a reaction submission did: created a new vote,
// flipped an existing one, or toggled the same vote off.
type ReactionOutcome string

const (
	ReactionCreated ReactionOutcome = "created"
	ReactionUpdated ReactionOutcome = "updated"
	ReactionDeleted ReactionOutcome = "deleted"
)

type BookmarkStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Bookmark, error)
	Upsert(ctx context.Context, bookmark models.Bookmark) error
	Delete(ctx context.Context, userID string, articleURL string) error
}

type ReactionStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Reaction, error)
	Get(ctx context.Context, userID string, articleURL string) (models.Reaction, error)
	Create(ctx context.Context, reaction models.Reaction) error
	UpdateType(ctx context.Context, id string, reactionType models.ReactionType) error
	Delete(ctx context.Context, id string) error
	CountsForURLs(ctx context.Context, urls []string) (map[string]models.ReactionCounts, error)
}

// EngagementService is the per-user bookmark and reaction ledger. Snapshots
// pass through as raw JSON; the service never inspects them beyond validity.
type EngagementService struct {
	bookmarks BookmarkStore
	reactions ReactionStore
	log       zerolog.Logger
}

func NewEngagementService(bookmarks BookmarkStore, reactions ReactionStore, log zerolog.Logger) *EngagementService {
	return &EngagementService{
		bookmarks: bookmarks,
		reactions: reactions,
		log:       log,
	}
}

func (s *EngagementService) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	return s.bookmarks.ListByUser(ctx, userID)
}

func (s *EngagementService) AddBookmark(ctx context.Context, userID string, articleURL string, snapshot json.RawMessage) (models.Bookmark, error) {
	if articleURL == "" {
		return models.Bookmark{}, &ValidationError{Message: "article url is required"}
	}
	if !json.Valid(snapshot) {
		return models.Bookmark{}, &ValidationError{Message: "invalid article payload"}
	}

	bookmark := models.Bookmark{
		ID:          ids.New(),
		UserID:      userID,
		ArticleURL:  articleURL,
		ArticleData: snapshot,
	}
	if err := s.bookmarks.Upsert(ctx, bookmark); err != nil {
		return models.Bookmark{}, err
	}
	return bookmark, nil
}

func (s *EngagementService) RemoveBookmark(ctx context.Context, userID string, articleURL string) error {
	if articleURL == "" {
		return &ValidationError{Message: "article url is required"}
	}
	return s.bookmarks.Delete(ctx, userID, articleURL)
}

func (s *EngagementService) ListReactions(ctx context.Context, userID string) ([]models.Reaction, error) {
	return s.reactions.ListByUser(ctx, userID)
}

// React applies the toggle semantics for one (user, article) vote:
// none → create, same type → delete, different type → update in place.
// A concurrent writer losing the insert race observes the uniqueness
// constraint and retries against the winner's row.
func (s *EngagementService) React(ctx context.Context, userID string, articleURL string, reactionType models.ReactionType, snapshot json.RawMessage) (ReactionOutcome, models.Reaction, error) {
	if articleURL == "" {
		return "", models.Reaction{}, &ValidationError{Message: "article url is required"}
	}
	if !models.ValidReactionType(reactionType) {
		return "", models.Reaction{}, &ValidationError{Message: "invalid reaction type"}
	}
	if !json.Valid(snapshot) {
		return "", models.Reaction{}, &ValidationError{Message: "invalid article payload"}
	}

	existing, err := s.reactions.Get(ctx, userID, articleURL)
	switch {
	case err == nil:
		return s.applyToExisting(ctx, existing, reactionType)
	case errors.Is(err, repository.ErrReactionNotFound):
		// fall through to create
	default:
		return "", models.Reaction{}, err
	}

	reaction := models.Reaction{
		ID:          ids.New(),
		UserID:      userID,
		ArticleURL:  articleURL,
		Type:        reactionType,
		ArticleData: snapshot,
	}
	err = s.reactions.Create(ctx, reaction)
	if errors.Is(err, repository.ErrReactionExists) {
		// Lost the insert race; re-read and treat as an existing reaction.
		winner, getErr := s.reactions.Get(ctx, userID, articleURL)
		if getErr != nil {
			return "", models.Reaction{}, getErr
		}
		return s.applyToExisting(ctx, winner, reactionType)
	}
	if err != nil {
		return "", models.Reaction{}, err
	}
	return ReactionCreated, reaction, nil
}

func (s *EngagementService) applyToExisting(ctx context.Context, existing models.Reaction, reactionType models.ReactionType) (ReactionOutcome, models.Reaction, error) {
	if existing.Type == reactionType {
		if err := s.reactions.Delete(ctx, existing.ID); err != nil {
			return "", models.Reaction{}, err
		}
		return ReactionDeleted, models.Reaction{}, nil
	}

	if err := s.reactions.UpdateType(ctx, existing.ID, reactionType); err != nil {
		return "", models.Reaction{}, err
	}
	existing.Type = reactionType
	return ReactionUpdated, existing, nil
}

func (s *EngagementService) ReactionCounts(ctx context.Context, urls []string) (map[string]models.ReactionCounts, error) {
	return s.reactions.CountsForURLs(ctx, urls)
}
