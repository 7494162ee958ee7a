package domain

import "errors"

var (
	// ErrNotFound signals a missing row; callers decide whether that is an
	// empty state or a 404.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned by proactive uniqueness checks on
	// supplier and ingredient names, before the insert is attempted.
	ErrDuplicateName = errors.New("name already exists")

	// ErrOrderFinal is returned when a transition is requested on an order
	// already in a terminal state.
	ErrOrderFinal = errors.New("order is in a terminal state")

	// ErrInvalid wraps validation failures on user-provided input.
	ErrInvalid = errors.New("invalid input")
)
