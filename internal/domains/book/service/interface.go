package service

import (
	"context"

	"booka-backend/internal/domains/book/model"
	reviewModel "booka-backend/internal/domains/review/model"
)

// ServiceInterface is the catalog read side of the feed
type ServiceInterface interface {
	// Detail assembles the detail page. viewerID 0 means anonymous.
	Detail(ctx context.Context, bookID, viewerID int64) (*model.DetailResponse, error)

	// ReviewPage returns one page of reviews with text, newest first
	ReviewPage(ctx context.Context, bookID int64, page int) ([]model.ReviewItem, error)

	SearchKeyword(ctx context.Context, keyword string, page int) (*model.SearchResponse, error)
	Search(ctx context.Context, text string, page int) (*model.SearchResponse, error)

	// OnboardingBooks lists the most reviewed books for taste selection
	OnboardingBooks(ctx context.Context) ([]model.BookSimple, error)
}

// ReviewReader is the slice of the review store the catalog needs
type ReviewReader interface {
	GetByUserAndBook(ctx context.Context, userID, bookID int64) (*reviewModel.Review, error)
	ListWithContent(ctx context.Context, bookID int64, offset, limit int) ([]*reviewModel.Review, error)
}
