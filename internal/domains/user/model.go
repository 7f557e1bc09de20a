package user

import "time"

// User is an account. IsOriginal is true for accounts created through
// registration and false for profiles imported for the recommender.
type User struct {
	ID                    int64
	Username              string
	Nickname              string
	PasswordHash          string
	IsOriginal            bool
	RecommendationProxyID *int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ProfileID is the id used for recommendation lookups
func (u *User) ProfileID() int64 {
	if u.RecommendationProxyID != nil && *u.RecommendationProxyID > 0 {
		return *u.RecommendationProxyID
	}
	return u.ID
}

// HasProfileAlias reports whether onboarding already ran
func (u *User) HasProfileAlias() bool {
	return u.RecommendationProxyID != nil
}
