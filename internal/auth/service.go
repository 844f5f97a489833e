// Package auth handles password-based session authentication.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dompet/service/internal/config"
	"github.com/dompet/service/internal/user"
)

// TokenTTL is the validity window of an issued session token. The cookie
// carrying it expires at the same time.
const TokenTTL = 30 * 24 * time.Hour

// ErrInvalidCredentials is returned for an unknown username or wrong
// password; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserStore is the subset of user persistence the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// Service contains the business logic for registration and login.
type Service struct {
	users UserStore
	cfg   *config.Config
}

// NewService creates a new auth Service.
func NewService(users UserStore, cfg *config.Config) *Service {
	return &Service{users: users, cfg: cfg}
}

// Register creates a new account and issues a session token.
func (s *Service) Register(ctx context.Context, username, password string) (string, *user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		return "", nil, err
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, user.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, u, nil
}

// GetByID returns the user for an authenticated session.
func (s *Service) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

// issueToken creates a signed JWT for the given user.
func (s *Service) issueToken(u *user.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(u.ID, 10),
		"username": u.Username,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
