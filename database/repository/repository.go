package repository

import "errors"

var (
	// ErrNotFound is returned when no document matches the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrStateChanged is returned when a conditional write matched nothing because
	// the document moved on since it was read.
	ErrStateChanged = errors.New("document state changed")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate document")
)
