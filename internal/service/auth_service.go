package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"newsportal/api/internal/config"
	"newsportal/api/internal/ids"
	"newsportal/api/internal/models"
	"newsportal/api/internal/repository"
	"newsportal/api/internal/security"
)

var (
	ErrAccountBlocked = errors.New("account blocked after too many failed login attempts, contact an administrator")
	ErrEmailTaken     = repository.ErrEmailTaken
)

// CredentialsError is a login denial for a bad email/password pair. Remaining
// is the number of attempts left before lockout; Reveal controls whether that
// number is surfaced to the client.
type CredentialsError struct {
	Remaining int
	Reveal    bool
}

func (e *CredentialsError) Error() string {
	if e.Reveal {
		return "invalid email or password, attempts remaining: " + strconv.Itoa(e.Remaining)
	}
	return "invalid email or password"
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// UserStore and AttemptStore are the credential-store operations the login
// flow needs; the pgx repositories satisfy them.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
}

type AttemptStore interface {
	Record(ctx context.Context, attempt models.FailedAttempt) error
	CountByUser(ctx context.Context, userID string) (int, error)
	OldestTimestamp(ctx context.Context, userID string) (*time.Time, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type AuthService struct {
	users    UserStore
	attempts AttemptStore
	cfg      *config.AppConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(users UserStore, attempts AttemptStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		attempts: attempts,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

type RegisterInput struct {
	FullName       string
	Email          string
	BirthYear      int
	Password       string
	RepeatPassword string
}

// AuthResult is a granted session: the public user projection plus a signed
// session token for the auth cookie.
type AuthResult struct {
	User  models.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)

	if input.FullName == "" || input.Email == "" || input.BirthYear == 0 || input.Password == "" || input.RepeatPassword == "" {
		return AuthResult{}, &ValidationError{Message: "all fields are required"}
	}
	if !security.ValidateEmail(input.Email) {
		return AuthResult{}, &ValidationError{Message: "invalid email format"}
	}
	if err := security.ValidatePassword(input.Password); err != nil {
		return AuthResult{}, &ValidationError{Message: err.Error()}
	}
	if input.Password != input.RepeatPassword {
		return AuthResult{}, &ValidationError{Message: "passwords do not match"}
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: passwordHash,
		BirthYear:    input.BirthYear,
		Role:         models.RoleUser,
	}

	// The unique index on email decides duplicates, not a prior lookup.
	if err := s.users.Create(ctx, user); err != nil {
		return AuthResult{}, err
	}

	token, err := security.GenerateSessionToken(s.cfg.Security.JWTSecret, user.ID, user.Email, s.cfg.Security.SessionTTL)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Token: token}, nil
}

// Login runs the lockout state machine over the user's failed-attempt
// history, then verifies the password. Lockout policy: MaxFailedAttempts
// failures block the account, and so does any failed attempt aging past
// AttemptWindow without a successful login in between.
func (s *AuthService) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown emails get the same generic denial as bad passwords.
			return AuthResult{}, &CredentialsError{}
		}
		return AuthResult{}, err
	}

	if user.IsBlocked {
		return AuthResult{}, ErrAccountBlocked
	}

	oldest, err := s.attempts.OldestTimestamp(ctx, user.ID)
	if err != nil {
		return AuthResult{}, err
	}
	if oldest != nil && s.now().Sub(*oldest) > s.cfg.Security.AttemptWindow {
		if err := s.users.SetBlocked(ctx, user.ID, true); err != nil {
			return AuthResult{}, err
		}
		s.log.Warn().Str("user_id", user.ID).Msg("account blocked: attempt window exceeded")
		return AuthResult{}, ErrAccountBlocked
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return AuthResult{}, s.recordFailure(ctx, user)
	}

	if err := s.attempts.DeleteByUser(ctx, user.ID); err != nil {
		return AuthResult{}, err
	}

	token, err := security.GenerateSessionToken(s.cfg.Security.JWTSecret, user.ID, user.Email, s.cfg.Security.SessionTTL)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, user models.User) error {
	attempt := models.FailedAttempt{
		ID:        ids.New(),
		UserID:    user.ID,
		Timestamp: s.now(),
	}
	if err := s.attempts.Record(ctx, attempt); err != nil {
		return err
	}

	count, err := s.attempts.CountByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	if count >= s.cfg.Security.MaxFailedAttempts {
		if err := s.users.SetBlocked(ctx, user.ID, true); err != nil {
			return err
		}
		s.log.Warn().Str("user_id", user.ID).Int("attempts", count).Msg("account blocked: max failed attempts")
		return ErrAccountBlocked
	}

	remaining := s.cfg.Security.MaxFailedAttempts - count
	return &CredentialsError{
		Remaining: remaining,
		Reveal:    remaining <= s.cfg.Security.RevealRemainingAt,
	}
}

func (s *AuthService) GetUser(ctx context.Context, id string) (models.User, error) {
	return s.users.GetByID(ctx, id)
}

// EmailAvailable reports whether no account exists for the given email.
func (s *AuthService) EmailAvailable(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	_, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}
