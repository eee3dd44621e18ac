package services

import (
	"context"
	"errors"
	"fmt"
	"grocery_store/internal/models"
	"grocery_store/internal/repository"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Session is the authenticated identity attached to a bearer token.
type Session struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps login sessions keyed by opaque token.
type SessionStore interface {
	SaveSession(ctx context.Context, token string, session *Session, ttl time.Duration) error
	LoadSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// ErrSessionNotFound is returned by SessionStore implementations for unknown or expired tokens.
var ErrSessionNotFound = errors.New("session not found")

type RegisterInput struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Session, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
	// EnsureAdmin creates the bootstrap administrator if the email is unused.
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	sessions   SessionStore
	sessionTTL time.Duration
	logger     *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, sessions SessionStore, sessionTTL time.Duration, logger *zap.Logger) UserService {
	return &userService{userRepo: userRepo, sessions: sessions, sessionTTL: sessionTTL, logger: logger}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	return s.createUser(ctx, input, false)
}

func (s *userService) createUser(ctx context.Context, input RegisterInput, admin bool) (*models.User, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PhoneNumber:  strings.TrimSpace(input.PhoneNumber),
		PasswordHash: string(hashedPassword),
		IsAdmin:      admin,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	token := uuid.NewString()
	session := &Session{UserID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin, CreatedAt: now}
	if err := s.sessions.SaveSession(ctx, token, session, s.sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.logger.Info("user logged in", zap.Uint("user_id", user.ID))
	return &LoginResult{Token: token, ExpiresAt: now.Add(s.sessionTTL), User: user}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *userService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	session, err := s.sessions.LoadSession(ctx, token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return session, nil
}

func (s *userService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *userService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err := s.createUser(ctx, RegisterInput{Email: email, Password: password, FullName: "Administrator"}, true)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", user.Email))
	return user, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: invalid email %q", ErrInvalidInput, raw)
	}
	return email, nil
}
