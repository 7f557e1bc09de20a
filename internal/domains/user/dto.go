package user

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ========================================
// AUTH DTOs
// ========================================

type RegisterRequest struct {
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.Length(1, 150),
			validation.By(noSpaces),
		),
		validation.Field(&r.Nickname,
			validation.Required.Error("nickname is required"),
			validation.Length(1, 150),
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			validation.Length(4, 72).Error("password must be 4-72 characters"),
		),
	)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token    string `json:"token"`
	Nickname string `json:"nickname"`
	IsFirst  bool   `json:"is_first"`
}

func noSpaces(value interface{}) error {
	s, _ := value.(string)
	if strings.ContainsAny(s, " \t\r\n") {
		return validation.NewError("validation_username_spaces", "username must not contain whitespace")
	}
	return nil
}
