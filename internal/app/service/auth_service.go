package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"

	"github.com/google/uuid"
)

// RateLimiter gates sign-in attempts. Implemented by cache.LoginLimiter in
// production; tests supply their own.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type AuthService struct {
	userRepo     repository.UserRepository
	loginLimiter RateLimiter
}

func NewAuthService(userRepo repository.UserRepository, loginLimiter RateLimiter) *AuthService {
	return &AuthService{userRepo: userRepo, loginLimiter: loginLimiter}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// ClientAddr scopes the sign-in throttle; set by the handler, never
	// decoded from the body.
	ClientAddr string `json:"-"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// NormalizeEmail lower-cases and trims an email so uniqueness and lookups
// are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("name, email and password are required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Email:          NormalizeEmail(req.Email),
		HashedPassword: hashedPassword,
		Role:           model.RoleMember, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate email
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear hash before returning
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	email := NormalizeEmail(req.Email)

	if s.loginLimiter != nil {
		allowed, err := s.loginLimiter.Allow(ctx, email+":"+req.ClientAddr)
		if err != nil {
			// Fail open: sign-in availability wins when the cache is down.
			log.Printf("WARN: login limiter unavailable: %v", err)
		} else if !allowed {
			return nil, fmt.Errorf("too many sign-in attempts, try again later: %w", common.ErrTooManyRequests)
		}
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same failure whether the email or the password was wrong.
			return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, fmt.Errorf("invalid email or password: %w", common.ErrUnauthorized)
	}

	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}
