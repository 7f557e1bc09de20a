package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/feed/model"
	"booka-backend/internal/domains/user"
	"booka-backend/internal/shared/api"
	"booka-backend/pkg/jwt"
)

type stubService struct {
	onboarded map[int64]bool
}

func (s *stubService) MainPage(_ context.Context, userID int64) (*model.MainPageResponse, error) {
	if userID != 1 {
		return nil, user.ErrUserNotFound
	}
	return &model.MainPageResponse{
		Banner: []model.Banner{},
		Lines: []model.Line{
			{Title: model.TitleGeneral, Books: []bookModel.BookSimple{}},
			{Title: model.TitleSimilarUsers, Books: []bookModel.BookSimple{}},
		},
	}, nil
}

func (s *stubService) Onboarding(_ context.Context, userID int64, bookIDs []int64) (*model.OnboardingResponse, error) {
	switch {
	case userID != 1:
		return nil, user.ErrUserNotFound
	case s.onboarded[userID]:
		return nil, user.ErrProxyAlreadySet
	case len(bookIDs) == 0:
		return nil, model.ErrNoBooksSelected
	}
	for _, id := range bookIDs {
		if id == 404 {
			return nil, bookModel.ErrBookNotFound
		}
		if id == 500 {
			return nil, errors.New("recommender down")
		}
	}
	s.onboarded[userID] = true
	return &model.OnboardingResponse{ProfileID: 900, Marked: len(bookIDs)}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setup(t *testing.T) (http.Handler, string, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tokens := jwt.NewManager("s", time.Hour)
	h := NewFeedHandler(&stubService{onboarded: map[int64]bool{}})
	require.NoError(t, api.NewRegistry(tokens).Mount(r.Group("/api/v1"), h.Endpoints()...))

	alice, err := tokens.GenerateToken(1, "alice")
	require.NoError(t, err)
	ghost, err := tokens.GenerateToken(2, "ghost")
	require.NoError(t, err)
	return r, alice, ghost
}

func call(t *testing.T, r http.Handler, method, path, token, body string) envelope {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestMainPageEndpoint(t *testing.T) {
	r, alice, ghost := setup(t)

	env := call(t, r, http.MethodGet, "/api/v1/main", alice, "")
	require.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"banner":[],"lines":[{"title":"Recommended for you","books":[]},{"title":"Read by people like you","books":[]}]}`, string(env.Data))

	assert.Equal(t, 2, call(t, r, http.MethodGet, "/api/v1/main", "", "").Code)
	assert.Equal(t, 2, call(t, r, http.MethodGet, "/api/v1/main", ghost, "").Code)
}

func TestOnboardingEndpoint(t *testing.T) {
	r, alice, ghost := setup(t)

	assert.Equal(t, 2, call(t, r, http.MethodPost, "/api/v1/onboarding", ghost, `{"selected_books":[1]}`).Code)
	assert.Equal(t, 3, call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":"nope"}`).Code)
	assert.Equal(t, 3, call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":[]}`).Code)
	assert.Equal(t, 4, call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":[1,404]}`).Code)
	assert.Equal(t, 1, call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":[500]}`).Code)

	env := call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":"[1,2,3]"}`)
	require.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"profile_id":900,"marked":3}`, string(env.Data))

	assert.Equal(t, 5, call(t, r, http.MethodPost, "/api/v1/onboarding", alice, `{"selected_books":[1]}`).Code)
}
