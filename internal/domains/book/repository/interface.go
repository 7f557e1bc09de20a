package repository

import (
	"context"

	"booka-backend/internal/domains/book/model"
)

// RepositoryInterface is the catalog read contract
type RepositoryInterface interface {
	// GetByID returns model.ErrBookNotFound when absent
	GetByID(ctx context.Context, id int64) (*model.Book, error)

	// GetByIDs returns the books that exist, keyed by id. Missing ids are not an error.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Book, error)

	// SearchByKeyword pages books tagged with the exact keyword, most reviewed first.
	// The int is the unsliced total.
	SearchByKeyword(ctx context.Context, keyword string, offset, limit int) ([]*model.Book, int, error)

	// SearchByText pages books whose title or author contains text, case-insensitive.
	// Title matches rank before author-only matches.
	SearchByText(ctx context.Context, text string, offset, limit int) ([]*model.Book, int, error)

	// ListPopular returns the most reviewed books
	ListPopular(ctx context.Context, limit int) ([]*model.Book, error)

	// ListReviewedBy returns distinct books reviewed by any of userIDs, most reviewed first
	ListReviewedBy(ctx context.Context, userIDs []int64, limit int) ([]*model.Book, error)
}
