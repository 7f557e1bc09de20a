package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/review/model"
	"booka-backend/internal/domains/review/repository"
)

type reviewService struct {
	repo     repository.ReviewRepository
	accounts AccountResolver
}

func NewReviewService(repo repository.ReviewRepository, accounts AccountResolver) ServiceInterface {
	return &reviewService{
		repo:     repo,
		accounts: accounts,
	}
}

func (s *reviewService) Submit(ctx context.Context, userID int64, req model.SubmitReviewRequest) (*model.SubmitReviewResponse, error) {
	if _, err := s.accounts.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rv := &model.Review{
		UserID:    userID,
		BookID:    req.BookID,
		ReadState: req.State,
		Score:     model.NormalizeScore(req.State, req.Score),
		Content:   req.Content,
	}

	// the (user_id, book_id) unique key turns concurrent submissions into updates
	created, err := s.repo.Upsert(ctx, rv)
	if err != nil {
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("submit review: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Int64("book_id", rv.BookID).
		Str("state", string(rv.ReadState)).
		Bool("created", created).
		Msg("review stored")

	return &model.SubmitReviewResponse{
		BookID:    rv.BookID,
		ReadState: rv.ReadState,
		Score:     rv.Score,
		Content:   rv.Content,
		Created:   created,
	}, nil
}
