package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/book/service"
	"booka-backend/internal/shared/api"
)

type BookHandler struct {
	service service.ServiceInterface
}

func NewBookHandler(service service.ServiceInterface) *BookHandler {
	return &BookHandler{service: service}
}

// ========================================
// ERROR TABLES
// ========================================

const (
	codeBookNotFound = 2
	codeInvalid      = 3
)

var (
	lookupErrors = api.ErrorTable{
		1:                "unknown error",
		codeBookNotFound: "book not found",
		codeInvalid:      "invalid parameters",
	}
	searchErrors = api.ErrorTable{
		1:           "unknown error",
		codeInvalid: "invalid parameters",
	}
	listErrors = api.ErrorTable{
		1: "unknown error",
	}
)

var (
	pageParam = api.Param{Name: "page", Type: api.TypeInteger, Desc: "zero-based page", Optional: true}
	idParam   = api.Param{Name: "id", Type: api.TypeInteger, Desc: "book id"}
)

// Endpoints declares the catalog routes relative to /api/v1
func (h *BookHandler) Endpoints() []api.Endpoint {
	return []api.Endpoint{
		{
			Name:        "book detail",
			Method:      http.MethodGet,
			Path:        "/books/detail",
			Params:      []api.Param{idParam},
			Response:    model.DetailResponse{},
			Errors:      lookupErrors,
			Auth:        api.AuthOptional,
			InvalidCode: codeInvalid,
			Handle:      h.Detail,
		},
		{
			Name:        "review pages",
			Method:      http.MethodGet,
			Path:        "/books/reviews",
			Params:      []api.Param{idParam, pageParam},
			Response:    []model.ReviewItem{},
			Errors:      lookupErrors,
			InvalidCode: codeInvalid,
			Handle:      h.Reviews,
		},
		{
			Name:   "keyword search",
			Method: http.MethodGet,
			Path:   "/books/search/keyword",
			Params: []api.Param{
				{Name: "keyword", Type: api.TypeString, Desc: "exact keyword"},
				pageParam,
			},
			Response:    model.SearchResponse{},
			Errors:      searchErrors,
			InvalidCode: codeInvalid,
			Handle:      h.SearchKeyword,
		},
		{
			Name:   "book search",
			Method: http.MethodGet,
			Path:   "/books/search",
			Params: []api.Param{
				{Name: "keyword", Type: api.TypeString, Desc: "text matched against title and author"},
				pageParam,
			},
			Response:    model.SearchResponse{},
			Errors:      searchErrors,
			InvalidCode: codeInvalid,
			Handle:      h.Search,
		},
		{
			Name:     "onboarding list",
			Method:   http.MethodGet,
			Path:     "/onboarding/books",
			Response: []model.BookSimple{},
			Errors:   listErrors,
			Handle:   h.OnboardingBooks,
		},
	}
}

// ========================================
// HANDLERS
// ========================================

func (h *BookHandler) Detail(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.Detail(c.Request.Context(), req.Int("id"), req.UserID())
	return res, mapError(err)
}

func (h *BookHandler) Reviews(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.ReviewPage(c.Request.Context(), req.Int("id"), int(req.Int("page")))
	return res, mapError(err)
}

func (h *BookHandler) SearchKeyword(c *gin.Context, req *api.Request) (any, error) {
	keyword := req.String("keyword")
	if keyword == "" {
		return nil, api.Fail(codeInvalid, "keyword is required")
	}
	res, err := h.service.SearchKeyword(c.Request.Context(), keyword, int(req.Int("page")))
	return res, mapError(err)
}

func (h *BookHandler) Search(c *gin.Context, req *api.Request) (any, error) {
	text := req.String("keyword")
	if text == "" {
		return nil, api.Fail(codeInvalid, "keyword is required")
	}
	res, err := h.service.Search(c.Request.Context(), text, int(req.Int("page")))
	return res, mapError(err)
}

func (h *BookHandler) OnboardingBooks(c *gin.Context, _ *api.Request) (any, error) {
	return h.service.OnboardingBooks(c.Request.Context())
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrBookNotFound):
		return api.Fail(codeBookNotFound, "")
	case errors.Is(err, model.ErrInvalidPage):
		return api.Fail(codeInvalid, err.Error())
	default:
		return err
	}
}
