package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"booka-backend/internal/domains/review/model"
)

// ReviewRepository is the data access contract for reviews
type ReviewRepository interface {
	// GetByUserAndBook joins the author and returns model.ErrReviewNotFound when absent
	GetByUserAndBook(ctx context.Context, userID, bookID int64) (*model.Review, error)

	// Upsert writes the (user, book) row, bumping the book's review count only on insert.
	// Returns true when the row was created.
	Upsert(ctx context.Context, review *model.Review) (bool, error)
	UpsertWithTx(ctx context.Context, tx pgx.Tx, review *model.Review) (bool, error)

	// MarkReadWithTx stores state read with the onboarding score, keeping existing content
	MarkReadWithTx(ctx context.Context, tx pgx.Tx, userID, bookID int64) error

	// ListWithContent pages reviews that carry text, newest first
	ListWithContent(ctx context.Context, bookID int64, offset, limit int) ([]*model.Review, error)

	// ReadBookIDs returns the ids of books the user marked read
	ReadBookIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)

	CountByUser(ctx context.Context, userID int64) (int, error)
}
