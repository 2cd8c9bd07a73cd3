package models

import (
	"encoding/json"
	"time"
)

type ReactionType string

const (
	ReactionUp   ReactionType = "up"
	ReactionDown ReactionType = "down"
)

// ValidReactionType reports whether t is one of the accepted reaction types.
func ValidReactionType(t ReactionType) bool {
	return t == ReactionUp || t == ReactionDown
}

// Bookmark stores an article snapshot a user saved. ArticleData is the
// provider's article object at save time, kept byte-for-byte.
type Bookmark struct {
	ID          string
	UserID      string
	ArticleURL  string
	ArticleData json.RawMessage
	CreatedAt   time.Time
}

// Reaction is a user's vote on an article. At most one row exists per
// (user, article); the database enforces this.
type Reaction struct {
	ID          string
	UserID      string
	ArticleURL  string
	Type        ReactionType
	ArticleData json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReactionCounts are the aggregate up/down totals for one article url.
type ReactionCounts struct {
	Up   int `json:"up"`
	Down int `json:"down"`
}
