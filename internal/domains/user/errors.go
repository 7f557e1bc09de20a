package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrProxyAlreadySet = errors.New("recommendation profile already set")
)

// Service-level errors
var (
	// ErrWrongPassword is distinct from ErrUserNotFound so login can answer with different codes
	ErrWrongPassword = errors.New("wrong password")
)
