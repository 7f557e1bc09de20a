package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/book/repository"
	reviewModel "booka-backend/internal/domains/review/model"
	"booka-backend/internal/domains/user"
	"booka-backend/internal/infrastructure/recommender"
	"booka-backend/internal/shared/utils"
	"booka-backend/pkg/cache"
)

const onboardingCacheKey = "books:onboarding"

type BookService struct {
	repo        repository.RepositoryInterface
	reviews     ReviewReader
	recommender recommender.Client
	cache       cache.Cache
	cacheTTL    time.Duration
}

// NewBookService accepts a nil cache, which disables caching
func NewBookService(
	repo repository.RepositoryInterface,
	reviews ReviewReader,
	rec recommender.Client,
	c cache.Cache,
	cacheTTL time.Duration,
) ServiceInterface {
	return &BookService{
		repo:        repo,
		reviews:     reviews,
		recommender: rec,
		cache:       c,
		cacheTTL:    cacheTTL,
	}
}

// ========================================
// DETAIL
// ========================================

func (s *BookService) Detail(ctx context.Context, bookID, viewerID int64) (*model.DetailResponse, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	similar, err := s.similarBooks(ctx, bookID)
	if err != nil {
		return nil, err
	}

	recent, err := s.reviews.ListWithContent(ctx, bookID, 0, model.DetailReviewCount)
	if err != nil {
		return nil, fmt.Errorf("recent reviews: %w", err)
	}

	resp := &model.DetailResponse{
		Book:    book.Detail(),
		Similar: model.ToSimpleList(similar),
		Reviews: toReviewItems(recent),
	}

	if viewerID > 0 {
		mine, err := s.reviews.GetByUserAndBook(ctx, viewerID, bookID)
		switch {
		case errors.Is(err, reviewModel.ErrReviewNotFound):
		case err != nil:
			return nil, fmt.Errorf("viewer review: %w", err)
		default:
			resp.Hope = mine.ReadState == reviewModel.StateWantToRead
			item := toReviewItem(mine)
			resp.MyReview = &item
		}
	}

	return resp, nil
}

// similarBooks keeps the recommender order over the first candidates that resolve
func (s *BookService) similarBooks(ctx context.Context, bookID int64) ([]*model.Book, error) {
	candidates := s.recommender.SimilarBooks(ctx, bookID)
	if len(candidates) > model.SimilarBookLimit {
		candidates = candidates[:model.SimilarBookLimit]
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve similar books: %w", err)
	}
	return model.ResolveOrdered(ids, found), nil
}

// ========================================
// REVIEWS
// ========================================

func (s *BookService) ReviewPage(ctx context.Context, bookID int64, page int) ([]model.ReviewItem, error) {
	offset, ok := utils.Offset(page, model.ReviewPageSize)
	if !ok {
		return nil, model.ErrInvalidPage
	}
	if _, err := s.repo.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.reviews.ListWithContent(ctx, bookID, offset, model.ReviewPageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return toReviewItems(reviews), nil
}

func toReviewItems(reviews []*reviewModel.Review) []model.ReviewItem {
	items := make([]model.ReviewItem, 0, len(reviews))
	for _, rv := range reviews {
		items = append(items, toReviewItem(rv))
	}
	return items
}

func toReviewItem(rv *reviewModel.Review) model.ReviewItem {
	return model.ReviewItem{
		UserName:  user.DisplayName(rv.UserID, rv.AuthorNickname, rv.AuthorIsOriginal),
		ReadState: string(rv.ReadState),
		Score:     rv.Score,
		CreatedAt: rv.CreatedAt,
		Content:   rv.Content,
	}
}

// ========================================
// SEARCH
// ========================================

func (s *BookService) SearchKeyword(ctx context.Context, keyword string, page int) (*model.SearchResponse, error) {
	offset, ok := utils.Offset(page, model.SearchPageSize)
	if !ok {
		return nil, model.ErrInvalidPage
	}

	books, total, err := s.repo.SearchByKeyword(ctx, keyword, offset, model.SearchPageSize)
	if err != nil {
		return nil, err
	}
	return &model.SearchResponse{Books: model.ToSimpleList(books), Count: total}, nil
}

func (s *BookService) Search(ctx context.Context, text string, page int) (*model.SearchResponse, error) {
	offset, ok := utils.Offset(page, model.SearchPageSize)
	if !ok {
		return nil, model.ErrInvalidPage
	}

	books, total, err := s.repo.SearchByText(ctx, text, offset, model.SearchPageSize)
	if err != nil {
		return nil, err
	}
	return &model.SearchResponse{Books: model.ToSimpleList(books), Count: total}, nil
}

// ========================================
// ONBOARDING LIST
// ========================================

func (s *BookService) OnboardingBooks(ctx context.Context) ([]model.BookSimple, error) {
	if s.cache != nil {
		var cached []model.BookSimple
		found, err := s.cache.Get(ctx, onboardingCacheKey, &cached)
		if err != nil {
			log.Warn().Err(err).Str("key", onboardingCacheKey).Msg("cache read failed")
		} else if found {
			return cached, nil
		}
	}

	books, err := s.repo.ListPopular(ctx, model.OnboardingLimit)
	if err != nil {
		return nil, err
	}
	list := model.ToSimpleList(books)

	if s.cache != nil {
		if err := s.cache.Set(ctx, onboardingCacheKey, list, s.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", onboardingCacheKey).Msg("cache write failed")
		}
	}
	return list, nil
}
