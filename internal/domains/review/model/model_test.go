package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeScore(t *testing.T) {
	assert.Equal(t, 0, NormalizeScore(StateWantToRead, 9))
	assert.Equal(t, 0, NormalizeScore(StateReading, 5))
	assert.Equal(t, 7, NormalizeScore(StateRead, 7))
}

func TestSubmitReviewRequest_Validate(t *testing.T) {
	ok := SubmitReviewRequest{BookID: 42, State: StateRead, Score: 7, Content: "great"}
	assert.NoError(t, ok.Validate())

	// out of range score is irrelevant when it will be discarded
	unfinished := SubmitReviewRequest{BookID: 42, State: StateWantToRead, Score: 99}
	assert.NoError(t, unfinished.Validate())

	assert.Error(t, SubmitReviewRequest{BookID: 42, State: "finished"}.Validate())
	assert.Error(t, SubmitReviewRequest{BookID: 42, State: StateRead, Score: 11}.Validate())
	assert.Error(t, SubmitReviewRequest{BookID: 0, State: StateRead}.Validate())
}

func TestReadState_Valid(t *testing.T) {
	assert.True(t, StateReading.Valid())
	assert.False(t, ReadState("").Valid())
}
