package model

import "time"

// Review is the single rating row of a (user, book) pair
type Review struct {
	ID        int64
	UserID    int64
	BookID    int64
	ReadState ReadState
	Score     int
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// filled by reads that join the author
	AuthorNickname   string
	AuthorIsOriginal bool
}
