package model

import (
	"errors"

	bookModel "booka-backend/internal/domains/book/model"
)

const (
	LineBookLimit = 20

	TitleGeneral      = "Recommended for you"
	TitleSimilarUsers = "Read by people like you"
)

var (
	ErrNoBooksSelected = errors.New("selected_books must not be empty")
)

// Banner is a promotional slot on the main page
type Banner struct {
	Image string `json:"image"`
	Link  string `json:"link"`
}

// Line is one titled row of books
type Line struct {
	Title string                 `json:"title"`
	Books []bookModel.BookSimple `json:"books"`
}

type MainPageResponse struct {
	Banner []Banner `json:"banner"`
	Lines  []Line   `json:"lines"`
}

type OnboardingResponse struct {
	ProfileID int64 `json:"profile_id"`
	Marked    int   `json:"marked"`
}
