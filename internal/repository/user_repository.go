package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"newsportal/api/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, full_name, email, password_hash, birth_year, role, is_blocked, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.BirthYear,
		user.Role,
		user.IsBlocked,
	)
	if isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

const userColumns = `id, full_name, email, password_hash, birth_year, role, is_blocked, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.BirthYear,
		&user.Role,
		&user.IsBlocked,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users WHERE email = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users WHERE id = $1
	`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) SetBlocked(ctx context.Context, id string, blocked bool) error {
	const query = `
		UPDATE users SET is_blocked = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.db.Exec(ctx, query, id, blocked)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ListBlocked returns blocked users newest first, with the engagement counts
// shown in the admin view.
func (r *UserRepository) ListBlocked(ctx context.Context) ([]models.BlockedUser, error) {
	const query = `
		SELECT u.id, u.full_name, u.email, u.password_hash, u.birth_year, u.role, u.is_blocked, u.created_at, u.updated_at,
			(SELECT COUNT(*) FROM bookmarks b WHERE b.user_id = u.id),
			(SELECT COUNT(*) FROM reactions r WHERE r.user_id = u.id),
			(SELECT COUNT(*) FROM failed_attempts f WHERE f.user_id = u.id)
		FROM users u
		WHERE u.is_blocked = TRUE
		ORDER BY u.created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.BlockedUser
	for rows.Next() {
		var u models.BlockedUser
		if err := rows.Scan(
			&u.ID,
			&u.FullName,
			&u.Email,
			&u.PasswordHash,
			&u.BirthYear,
			&u.Role,
			&u.IsBlocked,
			&u.CreatedAt,
			&u.UpdatedAt,
			&u.Counts.Bookmarks,
			&u.Counts.Reactions,
			&u.Counts.FailedAttempts,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
