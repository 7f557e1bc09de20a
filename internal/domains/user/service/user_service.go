package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"booka-backend/internal/domains/user"
)

// bcryptCost is lowered in tests
var bcryptCost = bcrypt.DefaultCost

// userService implements user.Service
type userService struct {
	repo    user.Repository
	tokens  user.TokenIssuer
	reviews user.ReviewCounter
}

func NewUserService(repo user.Repository, tokens user.TokenIssuer, reviews user.ReviewCounter) user.Service {
	return &userService{
		repo:    repo,
		tokens:  tokens,
		reviews: reviews,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

// Register creates an original account and signs a token for it
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		Username:     req.Username,
		Nickname:     req.Nickname,
		PasswordHash: string(passwordHash),
		IsOriginal:   true,
	}

	// the unique index decides races between concurrent registrations
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	log.Info().Int64("user_id", u.ID).Msg("user registered")

	return &user.AuthResponse{
		Token:    token,
		Nickname: u.Nickname,
		IsFirst:  true,
	}, nil
}

// Login answers ErrUserNotFound and ErrWrongPassword separately
func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrWrongPassword
	}

	count, err := s.reviews.CountByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	token, err := s.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &user.AuthResponse{
		Token:    token,
		Nickname: u.Nickname,
		IsFirst:  count == 0,
	}, nil
}

// ========================================
// LOOKUP
// ========================================

func (s *userService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	if id <= 0 {
		return nil, user.ErrUserNotFound
	}
	return s.repo.FindByID(ctx, id)
}
