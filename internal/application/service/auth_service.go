package service

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/canteenhq/finance-api/internal/config"
	"github.com/canteenhq/finance-api/pkg/apperror"
	"github.com/canteenhq/finance-api/pkg/utils"
)

// AuthService authenticates the single back-office principal configured in
// the environment and issues JWT pairs for it.
type AuthService struct {
	username     string
	passwordHash []byte
	jwtManager   *utils.JWTManager
}

// NewAuthService creates a new auth service. A plain AUTH_PASSWORD is hashed
// once at startup; AUTH_PASSWORD_HASH wins when both are set.
func NewAuthService(cfg *config.AuthConfig, jwtManager *utils.JWTManager) *AuthService {
	hash := []byte(cfg.PasswordHash)
	if len(hash) == 0 && cfg.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Warning: failed to hash configured password: %v", err)
		} else {
			hash = h
		}
	}
	if len(hash) == 0 {
		log.Println("Warning: no back-office password configured, logins will be rejected")
	}

	return &AuthService{
		username:     cfg.Username,
		passwordHash: hash,
		jwtManager:   jwtManager,
	}
}

// TokenPair holds an access and refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if username != s.username || len(s.passwordHash) == 0 {
		return nil, apperror.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issueTokens(username)
}

// Refresh exchanges a valid refresh token for a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	subject, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	if subject != s.username {
		return nil, apperror.ErrInvalidToken
	}
	return s.issueTokens(subject)
}

func (s *AuthService) issueTokens(username string) (*TokenPair, error) {
	access, err := s.jwtManager.GenerateAccessToken(username)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtManager.GenerateRefreshToken(username)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
