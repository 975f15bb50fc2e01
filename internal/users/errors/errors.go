package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrEmailTaken = errors.New("email already belongs to another user")
)
