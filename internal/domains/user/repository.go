package user

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository is the data access contract for accounts
type Repository interface {
	// Create inserts u and fills ID and timestamps.
	// Returns ErrUsernameTaken when the username exists.
	Create(ctx context.Context, u *User) error

	// FindByID returns ErrUserNotFound when absent
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByUsername returns ErrUserNotFound when absent
	FindByUsername(ctx context.Context, username string) (*User, error)

	// SetRecommendationProxyWithTx stores the profile alias once.
	// Returns ErrProxyAlreadySet when an alias exists.
	SetRecommendationProxyWithTx(ctx context.Context, tx pgx.Tx, userID, proxyID int64) error
}
