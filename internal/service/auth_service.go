package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/domain"
	"github.com/helixdesk/helixdesk/internal/repository"
	apperrors "github.com/helixdesk/helixdesk/pkg/util"
)

// AuthService issues sessions. Tokens are stateless JWTs, so logout is a
// client-side discard.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Session is the result of a successful login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
}

// Login authenticates with username and password.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.NewValidationError("username and password required", nil)
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return s.issue(user)
}

// LoginAsCustomer authenticates a customer through their portal token.
// Staff accounts never carry a token, but the role check guards against a
// row edited by hand.
func (s *AuthService) LoginAsCustomer(ctx context.Context, clientToken string) (*Session, error) {
	clientToken = strings.TrimSpace(clientToken)
	if clientToken == "" {
		return nil, apperrors.NewValidationError("client token required", nil)
	}

	user, err := s.users.GetByClientToken(ctx, clientToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid client token")
		}
		return nil, apperrors.MapError(err)
	}
	if user.Role != domain.RoleCustomer {
		return nil, apperrors.NewUnauthorized("invalid client token")
	}
	return s.issue(user)
}

// Logout is a no-op server side; tokens simply expire.
func (s *AuthService) Logout(ctx context.Context) error {
	return nil
}

func (s *AuthService) issue(user *domain.User) (*Session, error) {
	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = ""
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
