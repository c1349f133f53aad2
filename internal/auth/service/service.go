// Package service implements registration, login, and token verification.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/taskhub/internal/auth/token"
	"github.com/louisbranch/taskhub/internal/auth/user"
	apperrors "github.com/louisbranch/taskhub/internal/platform/errors"
	"github.com/louisbranch/taskhub/internal/platform/id"
	"github.com/louisbranch/taskhub/internal/storage"
)

var (
	// ErrUsernameTaken indicates a registration with an existing username.
	ErrUsernameTaken = apperrors.New(apperrors.CodeUsernameTaken, "Username already exists")
	// ErrEmailTaken indicates a registration with an existing email.
	ErrEmailTaken = apperrors.New(apperrors.CodeEmailTaken, "Email already exists")
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so a caller cannot tell which check failed.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeInvalidCredentials, "Invalid credentials")
	// ErrMissingLoginFields indicates a login request without a username
	// or password.
	ErrMissingLoginFields = apperrors.New(apperrors.CodeUserPasswordRequired, "Username and password are required")
)

// AuthService verifies credentials and issues identity tokens.
type AuthService struct {
	users       storage.UserStore
	tokens      token.Config
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewAuthService creates an AuthService with default dependencies.
func NewAuthService(users storage.UserStore, tokens token.Config) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// RegisterInput describes a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput describes a login request.
type LoginInput struct {
	Username string
	Password string
}

// Session is the outcome of a successful register or login call.
type Session struct {
	Token string
	User  user.User
}

// Register creates a new user and issues an identity token. Username
// uniqueness is checked before email uniqueness.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (Session, error) {
	if s.users == nil {
		return Session{}, fmt.Errorf("user store is not configured")
	}

	normalized, err := user.NormalizeCreateUserInput(user.CreateUserInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		return Session{}, err
	}

	taken, err := s.users.UsernameExists(ctx, normalized.Username)
	if err != nil {
		return Session{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return Session{}, ErrUsernameTaken
	}

	taken, err = s.users.EmailExists(ctx, normalized.Email)
	if err != nil {
		return Session{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return Session{}, ErrEmailTaken
	}

	created, err := user.CreateUser(normalized, s.clock, s.idGenerator)
	if err != nil {
		return Session{}, err
	}
	if err := s.users.PutUser(ctx, created); err != nil {
		return Session{}, fmt.Errorf("persist user: %w", err)
	}

	signed, err := token.Issue(created.ID, s.tokens)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: signed, User: created}, nil
}

// Login verifies a username and password and issues an identity token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Session, error) {
	if s.users == nil {
		return Session{}, fmt.Errorf("user store is not configured")
	}

	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return Session{}, ErrMissingLoginFields
	}

	found, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if !user.VerifyPassword(found.PasswordHash, in.Password) {
		return Session{}, ErrInvalidCredentials
	}

	signed, err := token.Issue(found.ID, s.tokens)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{Token: signed, User: found}, nil
}

// Verify checks an identity token and returns the embedded user id. It
// must run before every task operation.
func (s *AuthService) Verify(tokenString string) (string, error) {
	claims, err := token.Verify(tokenString, s.tokens)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
