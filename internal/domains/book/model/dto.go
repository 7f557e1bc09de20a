package model

import "time"

const (
	SearchPageSize = 10
	ReviewPageSize = 3
	// DetailReviewCount is how many recent reviews the detail page shows
	DetailReviewCount = 3
	SimilarBookLimit  = 10
	OnboardingLimit   = 50
)

// ReviewItem is a review as shown to readers
type ReviewItem struct {
	UserName  string    `json:"user_name"`
	ReadState string    `json:"read_state"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content"`
}

type DetailResponse struct {
	Book     BookDetail   `json:"book"`
	Similar  []BookSimple `json:"similar"`
	Reviews  []ReviewItem `json:"reviews"`
	Hope     bool         `json:"hope"`
	MyReview *ReviewItem  `json:"my_review"`
}

type SearchResponse struct {
	Books []BookSimple `json:"books"`
	Count int          `json:"count"`
}
