package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"booka-backend/internal/domains/user"
	"booka-backend/internal/shared/api"
)

// UserHandler exposes registration and login
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// ERROR TABLES
// ========================================

const (
	registerCodeUsernameTaken = 2
	registerCodeInvalid       = 3

	loginCodeNoAccount     = 2
	loginCodeWrongPassword = 3
	loginCodeInvalid       = 4
)

var (
	registerErrors = api.ErrorTable{
		1:                         "unknown error",
		registerCodeUsernameTaken: "username already exists",
		registerCodeInvalid:       "invalid parameters",
	}
	loginErrors = api.ErrorTable{
		1:                      "unknown error",
		loginCodeNoAccount:     "account does not exist",
		loginCodeWrongPassword: "wrong password",
		loginCodeInvalid:       "invalid parameters",
	}
)

// Endpoints declares the auth routes relative to /api/v1
func (h *UserHandler) Endpoints() []api.Endpoint {
	return []api.Endpoint{
		{
			Name:   "register",
			Method: http.MethodPost,
			Path:   "/auth/register",
			Params: []api.Param{
				{Name: "username", Type: api.TypeString, Desc: "login id"},
				{Name: "nickname", Type: api.TypeString, Desc: "display name"},
				{Name: "password", Type: api.TypeString, Desc: "password"},
			},
			Response:    user.AuthResponse{},
			Errors:      registerErrors,
			InvalidCode: registerCodeInvalid,
			Handle:      h.Register,
		},
		{
			Name:   "login",
			Method: http.MethodPost,
			Path:   "/auth/login",
			Params: []api.Param{
				{Name: "username", Type: api.TypeString, Desc: "login id"},
				{Name: "password", Type: api.TypeString, Desc: "password"},
			},
			Response:    user.AuthResponse{},
			Errors:      loginErrors,
			InvalidCode: loginCodeInvalid,
			Handle:      h.Login,
		},
	}
}

// Register handles POST /auth/register
func (h *UserHandler) Register(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.Register(c.Request.Context(), user.RegisterRequest{
		Username: req.String("username"),
		Nickname: req.String("nickname"),
		Password: req.String("password"),
	})
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, user.ErrUsernameTaken):
		return nil, api.Fail(registerCodeUsernameTaken, "")
	case isValidation(err):
		return nil, api.Fail(registerCodeInvalid, err.Error())
	default:
		return nil, err
	}
}

// Login handles POST /auth/login
func (h *UserHandler) Login(c *gin.Context, req *api.Request) (any, error) {
	res, err := h.service.Login(c.Request.Context(), user.LoginRequest{
		Username: req.String("username"),
		Password: req.String("password"),
	})
	switch {
	case err == nil:
		return res, nil
	case errors.Is(err, user.ErrUserNotFound):
		return nil, api.Fail(loginCodeNoAccount, "")
	case errors.Is(err, user.ErrWrongPassword):
		return nil, api.Fail(loginCodeWrongPassword, "")
	case isValidation(err):
		return nil, api.Fail(loginCodeInvalid, err.Error())
	default:
		return nil, err
	}
}

func isValidation(err error) bool {
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return true
	}
	var verr validation.Error
	return errors.As(err, &verr)
}
