// Package service implements account registration and login with bcrypt
// password hashing and short-lived HMAC access tokens.
package service

import (
	"context"
	"strings"
	"time"

	"invoicing_backend/internal/auth/repository"
	"invoicing_backend/internal/events"
	"invoicing_backend/platform/apperr"
	"invoicing_backend/platform/config"
	"invoicing_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenType = "access"

// Service handles authentication operations.
type Service struct {
	repo *repository.Repository
	cfg  config.AuthServiceConfig
	bus  events.Bus
	log  *logger.Logger
}

// New creates the auth service.
func New(repo *repository.Repository, cfg config.AuthServiceConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, bus: bus, log: log}
}

// Register creates a new account. The account doubles as the tenant for
// everything the user creates.
func (s *Service) Register(ctx context.Context, email, name, plainPassword string) (*repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(plainPassword) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, email, name, string(hash))
	if err != nil {
		if s.log != nil {
			s.log.AuthEvent("register", email, false, err.Error())
		}
		return nil, err
	}

	if s.log != nil {
		s.log.AuthEvent("register", email, true, "")
	}
	if s.bus != nil {
		s.bus.Publish(ctx, events.UserSignedUp{
			BaseEvent: events.NewBaseEvent(),
			UserID:    user.ID,
			Email:     user.Email,
		})
	}
	return user, nil
}

// Login verifies credentials and returns a signed access token.
func (s *Service) Login(ctx context.Context, email, plainPassword string) (string, *repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if s.log != nil {
			s.log.AuthEvent("login", email, false, "unknown email")
		}
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(plainPassword)); err != nil {
		if s.log != nil {
			s.log.AuthEvent("login", email, false, "bad password")
		}
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := s.signAccessToken(user.ID)
	if err != nil {
		return "", nil, err
	}

	if s.log != nil {
		s.log.AuthEvent("login", email, true, "")
	}
	return token, user, nil
}

// GetUser retrieves the account behind an owner ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*repository.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

func (s *Service) signAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"type": accessTokenType,
		"exp":  now.Add(s.cfg.GetAccessTokenTTL()).Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}
