package domain

import "errors"

// Store-level sentinels. Repositories wrap these with entity context.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid reference")
	ErrAlreadyExists    = errors.New("already exists")
)
