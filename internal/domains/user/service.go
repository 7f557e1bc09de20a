package user

import "context"

// Service is the account business logic contract
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetByID(ctx context.Context, id int64) (*User, error)
}

// TokenIssuer signs auth tokens
type TokenIssuer interface {
	GenerateToken(userID int64, username string) (string, error)
}

// ReviewCounter tells whether a user has rated anything yet
type ReviewCounter interface {
	CountByUser(ctx context.Context, userID int64) (int, error)
}
