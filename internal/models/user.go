package models

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	BirthYear    int
	Role         Role
	IsBlocked    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FailedAttempt is one failed password check for a user. Rows are cleared
// in bulk on successful login and on admin unblock.
type FailedAttempt struct {
	ID        string
	UserID    string
	Timestamp time.Time
}

// EngagementCounts carries per-user row counts shown in the admin view.
type EngagementCounts struct {
	Bookmarks      int `json:"bookmarks"`
	Reactions      int `json:"reactions"`
	FailedAttempts int `json:"failedAttempts"`
}

// BlockedUser is a user projection with engagement counts attached.
type BlockedUser struct {
	User
	Counts EngagementCounts
}
