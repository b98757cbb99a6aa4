package service

import "errors"

var (
	// ErrNotFound is returned when the referenced todo does not exist.
	ErrNotFound = errors.New("item not found")
	// ErrInvalidStatusTransition is returned when a todo that left NEW is moved back to NEW.
	ErrInvalidStatusTransition = errors.New("cannot revert status to NEW")
)
