package errors

import "errors"

var (
	ErrNotFound = errors.New("food order not found")

	ErrInvalidID = errors.New("invalid food order ID format")
)
