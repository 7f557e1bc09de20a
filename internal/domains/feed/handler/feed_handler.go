package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/feed/model"
	"booka-backend/internal/domains/feed/service"
	"booka-backend/internal/domains/user"
	"booka-backend/internal/shared/api"
)

type FeedHandler struct {
	service service.ServiceInterface
}

func NewFeedHandler(service service.ServiceInterface) *FeedHandler {
	return &FeedHandler{service: service}
}

// ========================================
// ERROR TABLES
// ========================================

const (
	codeAccount      = 2
	codeInvalid      = 3
	codeBookNotFound = 4
	codeOnboarded    = 5
)

var (
	mainErrors = api.ErrorTable{
		1:           "unknown error",
		codeAccount: "account error",
	}
	onboardingErrors = api.ErrorTable{
		1:                "unknown error",
		codeAccount:      "account error",
		codeInvalid:      "invalid parameters",
		codeBookNotFound: "book not found",
		codeOnboarded:    "onboarding already done",
	}
)

func (h *FeedHandler) Endpoints() []api.Endpoint {
	return []api.Endpoint{
		{
			Name:     "main page",
			Method:   http.MethodGet,
			Path:     "/main",
			Response: model.MainPageResponse{},
			Errors:   mainErrors,
			Auth:     api.AuthRequired,
			AuthCode: codeAccount,
			Handle:   h.MainPage,
		},
		{
			Name:   "onboarding",
			Method: http.MethodPost,
			Path:   "/onboarding",
			Params: []api.Param{
				{Name: "selected_books", Type: api.TypeIntegerList, Desc: "ids of books the reader has read"},
			},
			Response:    model.OnboardingResponse{},
			Errors:      onboardingErrors,
			Auth:        api.AuthRequired,
			AuthCode:    codeAccount,
			InvalidCode: codeInvalid,
			Handle:      h.Onboarding,
		},
	}
}

// ========================================
// HANDLERS
// ========================================

func (h *FeedHandler) MainPage(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.MainPage(c.Request.Context(), req.UserID())
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, api.Fail(codeAccount, "")
	}
	return res, err
}

func (h *FeedHandler) Onboarding(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.Onboarding(c.Request.Context(), req.UserID(), req.IntList("selected_books"))
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, user.ErrUserNotFound):
		return nil, api.Fail(codeAccount, "")
	case errors.Is(err, model.ErrNoBooksSelected):
		return nil, api.Fail(codeInvalid, err.Error())
	case errors.Is(err, bookModel.ErrBookNotFound):
		return nil, api.Fail(codeBookNotFound, "")
	case errors.Is(err, user.ErrProxyAlreadySet):
		return nil, api.Fail(codeOnboarded, "")
	default:
		return nil, err
	}
}
