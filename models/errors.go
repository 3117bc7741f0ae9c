package models

import "errors"

// ErrNotFound is returned by the store when a document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")
