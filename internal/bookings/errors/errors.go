package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrRoomNotFound = errors.New("room not found")

	// ErrStatusChanged means the booking left the expected status before the update landed.
	ErrStatusChanged = errors.New("booking status changed concurrently")
)
