package store

import "errors"

// ErrNotFound is returned when an operation targets a row that does not exist.
var ErrNotFound = errors.New("not found")
