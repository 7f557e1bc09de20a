package model

import validation "github.com/go-ozzo/ozzo-validation/v4"

// ReadState is the reader's relationship to a book
type ReadState string

const (
	StateWantToRead ReadState = "want-to-read"
	StateReading    ReadState = "reading"
	StateRead       ReadState = "read"
)

const (
	MinScore = 0
	MaxScore = 10

	// OnboardingScore is stored for every book picked during onboarding
	OnboardingScore = 10

	MaxContentLength = 5000
)

func (s ReadState) Valid() bool {
	switch s {
	case StateWantToRead, StateReading, StateRead:
		return true
	}
	return false
}

// validState adapts Valid to an ozzo rule
func validState(value interface{}) error {
	s, _ := value.(ReadState)
	if s == "" || s.Valid() {
		return nil
	}
	return validation.NewError("validation_read_state", "state must be want-to-read, reading or read")
}

// NormalizeScore keeps a score only for finished books
func NormalizeScore(state ReadState, score int) int {
	if state != StateRead {
		return 0
	}
	return score
}
