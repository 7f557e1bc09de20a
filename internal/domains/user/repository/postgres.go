package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"booka-backend/internal/domains/user"
	"booka-backend/pkg/database"
)

// postgresRepository implements user.Repository
type postgresRepository struct {
	db database.Querier
}

// NewPostgresRepository accepts *pgxpool.Pool or a pgxmock pool
func NewPostgresRepository(db database.Querier) user.Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, username, nickname, password_hash, is_original, recommendation_proxy_id, created_at, updated_at`

// ========================================
// BASIC CRUD
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (username, nickname, password_hash, is_original)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, u.Username, u.Nickname, u.PasswordHash, u.IsOriginal).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

// ========================================
// ONBOARDING
// ========================================

func (r *postgresRepository) SetRecommendationProxyWithTx(ctx context.Context, tx pgx.Tx, userID, proxyID int64) error {
	query := `
		UPDATE users
		SET recommendation_proxy_id = $2, updated_at = NOW()
		WHERE id = $1 AND recommendation_proxy_id IS NULL
	`

	tag, err := tx.Exec(ctx, query, userID, proxyID)
	if err != nil {
		return fmt.Errorf("set recommendation proxy: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// either the user vanished or the alias was set concurrently
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
			return fmt.Errorf("check user exists: %w", err)
		}
		if !exists {
			return user.ErrUserNotFound
		}
		return user.ErrProxyAlreadySet
	}
	return nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Nickname,
		&u.PasswordHash,
		&u.IsOriginal,
		&u.RecommendationProxyID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
