package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsportal/api/internal/config"
	"newsportal/api/internal/models"
	"newsportal/api/internal/repository"
	"newsportal/api/internal/security"
)

type fakeUserStore struct {
	users map[string]models.User // by id
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) SetBlocked(_ context.Context, id string, blocked bool) error {
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsBlocked = blocked
	s.users[id] = user
	return nil
}

type fakeAttemptStore struct {
	attempts map[string][]models.FailedAttempt // by user id
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: make(map[string][]models.FailedAttempt)}
}

func (s *fakeAttemptStore) Record(_ context.Context, attempt models.FailedAttempt) error {
	s.attempts[attempt.UserID] = append(s.attempts[attempt.UserID], attempt)
	return nil
}

func (s *fakeAttemptStore) CountByUser(_ context.Context, userID string) (int, error) {
	return len(s.attempts[userID]), nil
}

func (s *fakeAttemptStore) OldestTimestamp(_ context.Context, userID string) (*time.Time, error) {
	list := s.attempts[userID]
	if len(list) == 0 {
		return nil, nil
	}
	oldest := list[0].Timestamp
	for _, attempt := range list[1:] {
		if attempt.Timestamp.Before(oldest) {
			oldest = attempt.Timestamp
		}
	}
	return &oldest, nil
}

func (s *fakeAttemptStore) DeleteByUser(_ context.Context, userID string) error {
	delete(s.attempts, userID)
	return nil
}

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:         "test-secret",
			SessionTTL:        time.Hour,
			MaxFailedAttempts: 5,
			AttemptWindow:     5 * time.Minute,
			RevealRemainingAt: 3,
		},
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserStore, *fakeAttemptStore) {
	t.Helper()
	users := newFakeUserStore()
	attempts := newFakeAttemptStore()
	svc := NewAuthService(users, attempts, testConfig(), zerolog.Nop())
	return svc, users, attempts
}

const (
	testEmail    = "alice@x.com"
	testPassword = "Abcdefghijk1!"
)

func registerTestUser(t *testing.T, svc *AuthService) models.User {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterInput{
		FullName:       "Alice",
		Email:          testEmail,
		BirthYear:      2000,
		Password:       testPassword,
		RepeatPassword: testPassword,
	})
	require.NoError(t, err)
	return result.User
}

func TestRegisterIssuesSession(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterInput{
		FullName:       "Alice",
		Email:          "Alice@X.com",
		BirthYear:      2000,
		Password:       testPassword,
		RepeatPassword: testPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, testEmail, result.User.Email, "email is normalized")
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.NotEqual(t, testPassword, result.User.PasswordHash)

	claims, err := security.ParseSessionToken(result.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UID)
	assert.Equal(t, testEmail, claims.Email)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	base := RegisterInput{
		FullName:       "Alice",
		Email:          testEmail,
		BirthYear:      2000,
		Password:       testPassword,
		RepeatPassword: testPassword,
	}

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing full name", func(in *RegisterInput) { in.FullName = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *RegisterInput) { in.Password = "Ab1!"; in.RepeatPassword = "Ab1!" }},
		{"no uppercase", func(in *RegisterInput) { in.Password = "abcdefghijk1!"; in.RepeatPassword = "abcdefghijk1!" }},
		{"no digit", func(in *RegisterInput) { in.Password = "Abcdefghijkl!"; in.RepeatPassword = "Abcdefghijkl!" }},
		{"no symbol", func(in *RegisterInput) { in.Password = "Abcdefghijk12"; in.RepeatPassword = "Abcdefghijk12" }},
		{"mismatch", func(in *RegisterInput) { in.RepeatPassword = testPassword + "x" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := base
			tc.mutate(&input)

			_, err := svc.Register(ctx, input)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		FullName:       "Alice Again",
		Email:          testEmail,
		BirthYear:      1999,
		Password:       testPassword,
		RepeatPassword: testPassword,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	user := registerTestUser(t, svc)

	result, err := svc.Login(context.Background(), "ALICE@x.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLoginUnknownEmailIsGeneric(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "nobody@x.com", "whatever")
	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.False(t, credErr.Reveal, "unknown emails never reveal attempt state")
}

func TestLoginLockoutAfterMaxAttempts(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := registerTestUser(t, svc)
	ctx := context.Background()

	// Failures 1 through max-1 deny with decreasing remaining counts,
	// revealed once remaining drops to the threshold.
	for i := 1; i < 5; i++ {
		_, err := svc.Login(ctx, testEmail, "wrong-password")
		var credErr *CredentialsError
		require.ErrorAs(t, err, &credErr, "attempt %d", i)
		assert.Equal(t, 5-i, credErr.Remaining, "attempt %d", i)
		assert.Equal(t, 5-i <= 3, credErr.Reveal, "attempt %d", i)
	}

	// Failure number max blocks the account.
	_, err := svc.Login(ctx, testEmail, "wrong-password")
	assert.ErrorIs(t, err, ErrAccountBlocked)

	stored, getErr := users.GetByID(ctx, user.ID)
	require.NoError(t, getErr)
	assert.True(t, stored.IsBlocked)

	// The correct password no longer helps.
	_, err = svc.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestLoginSuccessClearsAttempts(t *testing.T) {
	svc, _, attempts := newTestAuthService(t)
	user := registerTestUser(t, svc)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, testEmail, "wrong-password")
		var credErr *CredentialsError
		require.ErrorAs(t, err, &credErr)
	}

	_, err := svc.Login(ctx, testEmail, testPassword)
	require.NoError(t, err)

	count, err := attempts.CountByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "successful login clears the attempt history")

	// The next failure starts counting from zero again.
	_, err = svc.Login(ctx, testEmail, "wrong-password")
	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, 4, credErr.Remaining)
}

func TestLoginTimeWindowLockout(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := registerTestUser(t, svc)
	ctx := context.Background()

	start := time.Now()
	svc.now = func() time.Time { return start }

	_, err := svc.Login(ctx, testEmail, "wrong-password")
	var credErr *CredentialsError
	require.ErrorAs(t, err, &credErr)

	// Once the oldest failure ages past the window, the account blocks
	// even on a correct password.
	svc.now = func() time.Time { return start.Add(6 * time.Minute) }

	_, err = svc.Login(ctx, testEmail, testPassword)
	assert.ErrorIs(t, err, ErrAccountBlocked)

	stored, getErr := users.GetByID(ctx, user.ID)
	require.NoError(t, getErr)
	assert.True(t, stored.IsBlocked)
}

func TestEmailAvailable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	registerTestUser(t, svc)
	ctx := context.Background()

	available, err := svc.EmailAvailable(ctx, "Fresh@x.com")
	require.NoError(t, err)
	assert.True(t, available)

	available, err = svc.EmailAvailable(ctx, "ALICE@x.com")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestLoginStoreErrorSurfaces(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	boom := errors.New("db down")
	svc.users = failingUserStore{err: boom}

	_, err := svc.Login(context.Background(), testEmail, testPassword)
	assert.ErrorIs(t, err, boom)
}

type failingUserStore struct{ err error }

func (s failingUserStore) Create(context.Context, models.User) error { return s.err }
func (s failingUserStore) FindByEmail(context.Context, string) (models.User, error) {
	return models.User{}, s.err
}
func (s failingUserStore) GetByID(context.Context, string) (models.User, error) {
	return models.User{}, s.err
}
func (s failingUserStore) SetBlocked(context.Context, string, bool) error { return s.err }
