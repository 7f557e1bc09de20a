package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/feed/model"
	"booka-backend/internal/domains/user"
	"booka-backend/internal/infrastructure/recommender"
	"booka-backend/pkg/database"
)

type Deps struct {
	Pool        database.Pool
	Accounts    Accounts
	Profiles    ProfileWriter
	Books       Books
	Reviews     Reviews
	Recommender recommender.Client
	Banners     BannerProvider
}

type feedService struct {
	Deps
}

func NewFeedService(deps Deps) ServiceInterface {
	if deps.Banners == nil {
		deps.Banners = NoBanners{}
	}
	return &feedService{Deps: deps}
}

// ========================================
// MAIN PAGE
// ========================================

func (s *feedService) MainPage(ctx context.Context, userID int64) (*model.MainPageResponse, error) {
	u, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile := u.ProfileID()

	read, err := s.Reviews.ReadBookIDs(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}

	general, err := s.generalLine(ctx, profile, read)
	if err != nil {
		return nil, err
	}
	similar, err := s.similarUsersLine(ctx, profile, read)
	if err != nil {
		return nil, err
	}

	banners, err := s.Banners.Banners(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("banner provider failed")
		banners = []model.Banner{}
	}

	return &model.MainPageResponse{
		Banner: banners,
		Lines: []model.Line{
			{Title: model.TitleGeneral, Books: bookModel.ToSimpleList(general)},
			{Title: model.TitleSimilarUsers, Books: bookModel.ToSimpleList(similar)},
		},
	}, nil
}

// generalLine drops read books before the cut so the line stays full
func (s *feedService) generalLine(ctx context.Context, profile int64, read map[int64]struct{}) ([]*bookModel.Book, error) {
	ids := make([]int64, 0, model.LineBookLimit)
	for _, c := range s.Recommender.RecommendedBooks(ctx, profile) {
		if _, done := read[c.ID]; done {
			continue
		}
		ids = append(ids, c.ID)
		if len(ids) == model.LineBookLimit {
			break
		}
	}

	found, err := s.Books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve recommended books: %w", err)
	}
	return bookModel.ResolveOrdered(ids, found), nil
}

// similarUsersLine filters read books after the cut, so it may hold fewer than the limit
func (s *feedService) similarUsersLine(ctx context.Context, profile int64, read map[int64]struct{}) ([]*bookModel.Book, error) {
	candidates := s.Recommender.SimilarUsers(ctx, profile)
	seen := make(map[int64]struct{}, len(candidates))
	users := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		seen[c.ID] = struct{}{}
		users = append(users, c.ID)
	}

	books, err := s.Books.ListReviewedBy(ctx, users, model.LineBookLimit)
	if err != nil {
		return nil, fmt.Errorf("books of similar readers: %w", err)
	}
	return bookModel.Exclude(books, read), nil
}

// ========================================
// ONBOARDING
// ========================================

func (s *feedService) Onboarding(ctx context.Context, userID int64, bookIDs []int64) (*model.OnboardingResponse, error) {
	u, err := s.Accounts.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.HasProfileAlias() {
		return nil, user.ErrProxyAlreadySet
	}

	selected := dedupe(bookIDs)
	if len(selected) == 0 {
		return nil, model.ErrNoBooksSelected
	}

	found, err := s.Books.GetByIDs(ctx, selected)
	if err != nil {
		return nil, fmt.Errorf("resolve selected books: %w", err)
	}
	if len(found) != len(selected) {
		return nil, bookModel.ErrBookNotFound
	}

	profileID, err := s.Recommender.RecordPreference(ctx, u.ID, selected)
	if err != nil {
		return nil, fmt.Errorf("record preference: %w", err)
	}

	err = database.WithTransaction(ctx, s.Pool, func(tx pgx.Tx) error {
		if err := s.Profiles.SetRecommendationProxyWithTx(ctx, tx, u.ID, profileID); err != nil {
			return err
		}
		for _, id := range selected {
			if err := s.Reviews.MarkReadWithTx(ctx, tx, u.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("user_id", u.ID).Int64("profile_id", profileID).Int("books", len(selected)).Msg("onboarding completed")

	return &model.OnboardingResponse{ProfileID: profileID, Marked: len(selected)}, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
