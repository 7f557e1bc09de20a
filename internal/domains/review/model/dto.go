package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SubmitReviewRequest creates or replaces the caller's review of a book
type SubmitReviewRequest struct {
	BookID  int64     `json:"book_id"`
	State   ReadState `json:"state"`
	Score   int       `json:"score"`
	Content string    `json:"content"`
}

func (r SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.Min(int64(1))),
		validation.Field(&r.State,
			validation.Required,
			validation.By(validState),
		),
		// the score of an unfinished book is discarded, so only a read score is range checked
		validation.Field(&r.Score,
			validation.When(r.State == StateRead, validation.Min(MinScore), validation.Max(MaxScore)),
		),
		validation.Field(&r.Content, validation.RuneLength(0, MaxContentLength)),
	)
}

// SubmitReviewResponse echoes the stored row
type SubmitReviewResponse struct {
	BookID    int64     `json:"book_id"`
	ReadState ReadState `json:"read_state"`
	Score     int       `json:"score"`
	Content   string    `json:"content"`
	Created   bool      `json:"created"`
}
