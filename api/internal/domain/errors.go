package domain

import "errors"

// Storage-level outcomes. Services translate them into their own errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	ErrStale     = errors.New("record changed since it was read")
)
