package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("animal not found")
	ErrInvalidLimit = errors.New("invalid limit")
)
