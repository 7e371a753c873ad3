package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sumanshinde/cloth-pos/internal/repository"
)

// DTOs
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionInfo struct {
	SessionID      string    `json:"session_id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	CartLines      int       `json:"cart_lines"`
	CatalogLoaded  bool      `json:"catalog_loaded"`
	HasReturnDraft bool      `json:"has_return_draft"`
}

var ErrInvalidCredentials = errors.New("invalid username or password")

// BackendFactory binds the repositories to a backend token
type BackendFactory func(token string) *repository.Backend

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(sessionID string) error
	Me(sessionID string) (*SessionInfo, error)
}

type authService struct {
	authRepo   repository.AuthRepository
	newBackend BackendFactory
	sessions   SessionStore
	secret     []byte
	logger     *zap.Logger
}

func NewAuthService(
	authRepo repository.AuthRepository,
	newBackend BackendFactory,
	sessions SessionStore,
	secret []byte,
	logger *zap.Logger,
) AuthService {
	return &authService{
		authRepo:   authRepo,
		newBackend: newBackend,
		sessions:   sessions,
		secret:     secret,
		logger:     logger,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	token, err := s.authRepo.Authenticate(ctx, username, req.Password)
	if err != nil {
		var apiErr *repository.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
			s.logger.Info("login rejected by backend", zap.String("username", username))
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, apiErr.Message)
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	sess := s.sessions.Create(username, s.newBackend(token))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"sid": sess.ID,
		"iat": sess.CreatedAt.Unix(),
		"exp": sess.ExpiresAt.Unix(),
	}).SignedString(s.secret)
	if err != nil {
		s.sessions.Delete(sess.ID)
		return nil, errors.New("failed to generate token")
	}

	s.logger.Info("cashier logged in", zap.String("username", username), zap.String("session_id", sess.ID))
	return &LoginResponse{
		Token:     signed,
		SessionID: sess.ID,
		Username:  username,
		ExpiresAt: sess.ExpiresAt,
	}, nil
}

func (s *authService) Logout(sessionID string) error {
	if !s.sessions.Delete(sessionID) {
		return ErrSessionNotFound
	}
	s.logger.Info("cashier logged out", zap.String("session_id", sessionID))
	return nil
}

func (s *authService) Me(sessionID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return &SessionInfo{
		SessionID:      sess.ID,
		Username:       sess.Username,
		CreatedAt:      sess.CreatedAt,
		ExpiresAt:      sess.ExpiresAt,
		CartLines:      sess.cart.Len(),
		CatalogLoaded:  sess.catalog != nil,
		HasReturnDraft: sess.draft != nil,
	}, nil
}
