package database

import "errors"

var (
	// ErrNotFound is returned when no document matches, including when the
	// given identifier is not a valid ObjectID.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicateKey is returned when an insert violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)
