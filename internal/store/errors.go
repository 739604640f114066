package store

import "errors"

var (
	// ErrStorageUnavailable is returned at open time when no persistent
	// engine can be used on this platform (file not creatable, driver
	// failure). Callers must disable offline features rather than crash.
	ErrStorageUnavailable = errors.New("persistent storage unavailable")

	// ErrNotFound is returned by point lookups when no record matches.
	ErrNotFound = errors.New("record not found")
)
