package store

import "errors"

// ErrNotFound is returned when a row does not exist or is not visible to the caller.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller may see a row but not change it.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a row already exists.
var ErrConflict = errors.New("already exists")
