package service

import (
	"context"

	"booka-backend/internal/domains/review/model"
	"booka-backend/internal/domains/user"
)

type ServiceInterface interface {
	// Submit creates or replaces the caller's review of a book
	Submit(ctx context.Context, userID int64, req model.SubmitReviewRequest) (*model.SubmitReviewResponse, error)
}

// AccountResolver confirms the token still names a live account
type AccountResolver interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}
