package services

import (
	"context"
	"grocery_store/internal/repository"
	"grocery_store/internal/testutil"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func (s *memorySessionStore) SaveSession(_ context.Context, token string, session *Session, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = session
	return nil
}

func (s *memorySessionStore) LoadSession(_ context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *memorySessionStore) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func newUserService(t *testing.T) UserService {
	db := testutil.NewDB(t)
	store := &memorySessionStore{sessions: map[string]*Session{}}
	return NewUserService(repository.NewUserRepository(db), store, time.Hour, zap.NewNop())
}

func TestRegisterLoginLogout(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: " Awa@Example.com ", Password: "s3cretpass", FullName: "Awa"})
	require.NoError(t, err)
	assert.Equal(t, "awa@example.com", user.Email)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.False(t, user.IsAdmin)

	_, err = svc.Login(ctx, "awa@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := svc.Login(ctx, "AWA@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	session, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)

	require.NoError(t, svc.Logout(ctx, result.Token))
	_, err = svc.Authenticate(ctx, result.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterRejects(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "not-an-email", Password: "longenough"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterInput{Email: "A@example.com", Password: "longenough"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	first, err := svc.EnsureAdmin(ctx, "admin@grocery.local", "changeme123")
	require.NoError(t, err)
	assert.True(t, first.IsAdmin)

	second, err := svc.EnsureAdmin(ctx, "admin@grocery.local", "other-password")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	result, err := svc.Login(ctx, "admin@grocery.local", "changeme123")
	require.NoError(t, err)
	session, err := svc.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.True(t, session.IsAdmin)
}
