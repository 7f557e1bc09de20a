package model

import "errors"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrInvalidPage  = errors.New("page must not be negative")
)
