package storage

import "errors"

// Sentinel errors matched with errors.Is at the dispatcher boundary.
var (
	// ErrNotAuthorized carries the exact text surfaced to the chat.
	ErrNotAuthorized = errors.New("You are not allowed to do that.")

	ErrDuplicate    = errors.New("record already exists")
	ErrListNotFound = errors.New("list not found")
)
