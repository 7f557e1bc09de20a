package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	bookModel "booka-backend/internal/domains/book/model"
	"booka-backend/internal/domains/review/model"
	"booka-backend/internal/domains/review/service"
	"booka-backend/internal/domains/user"
	"booka-backend/internal/shared/api"
)

type ReviewHandler struct {
	service service.ServiceInterface
}

func NewReviewHandler(service service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{service: service}
}

const (
	codeAccount      = 2
	codeInvalid      = 3
	codeBookNotFound = 4
)

var submitErrors = api.ErrorTable{
	1:                "unknown error",
	codeAccount:      "account error",
	codeInvalid:      "invalid parameters",
	codeBookNotFound: "book not found",
}

func (h *ReviewHandler) Endpoints() []api.Endpoint {
	return []api.Endpoint{
		{
			Name:   "review submission",
			Method: http.MethodPost,
			Path:   "/reviews",
			Params: []api.Param{
				{Name: "book_id", Type: api.TypeInteger, Desc: "book id"},
				{Name: "state", Type: api.TypeString, Desc: "want-to-read, reading or read"},
				{Name: "score", Type: api.TypeInteger, Desc: "0-10, kept only when state is read", Optional: true},
				{Name: "content", Type: api.TypeString, Desc: "review text", Optional: true},
			},
			Response:    model.SubmitReviewResponse{},
			Errors:      submitErrors,
			Auth:        api.AuthRequired,
			AuthCode:    codeAccount,
			InvalidCode: codeInvalid,
			Handle:      h.Submit,
		},
	}
}

// Submit handles POST /reviews
func (h *ReviewHandler) Submit(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.Submit(c.Request.Context(), req.UserID(), model.SubmitReviewRequest{
		BookID:  req.Int("book_id"),
		State:   model.ReadState(req.String("state")),
		Score:   int(req.Int("score")),
		Content: req.String("content"),
	})

	var verrs validation.Errors
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, user.ErrUserNotFound):
		return nil, api.Fail(codeAccount, "")
	case errors.Is(err, bookModel.ErrBookNotFound):
		return nil, api.Fail(codeBookNotFound, "")
	case errors.As(err, &verrs):
		return nil, api.Fail(codeInvalid, err.Error())
	default:
		return nil, err
	}
}
