package service

import (
	"context"

	"github.com/jackc/pgx/v5"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/feed/model"
	"booka-backend/internal/domains/user"
)

type ServiceInterface interface {
	// MainPage builds the personal lines for a signed-in reader
	MainPage(ctx context.Context, userID int64) (*model.MainPageResponse, error)

	// Onboarding records the picked books as read and stores the recommender profile
	Onboarding(ctx context.Context, userID int64, bookIDs []int64) (*model.OnboardingResponse, error)
}

// ========================================
// COLLABORATORS
// ========================================

type Accounts interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type ProfileWriter interface {
	SetRecommendationProxyWithTx(ctx context.Context, tx pgx.Tx, userID, proxyID int64) error
}

type Books interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*bookModel.Book, error)
	ListReviewedBy(ctx context.Context, userIDs []int64, limit int) ([]*bookModel.Book, error)
}

type Reviews interface {
	ReadBookIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)
	MarkReadWithTx(ctx context.Context, tx pgx.Tx, userID, bookID int64) error
}

// BannerProvider supplies main page banners
type BannerProvider interface {
	Banners(ctx context.Context) ([]model.Banner, error)
}

// NoBanners has no banner source and always answers an empty list
type NoBanners struct{}

func (NoBanners) Banners(context.Context) ([]model.Banner, error) {
	return []model.Banner{}, nil
}
