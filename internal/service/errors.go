package service

import "errors"

var (
	// ErrOffline is returned by reference-data pulls invoked while the
	// monitor reports offline. Pulls never queue themselves; callers check
	// connectivity first.
	ErrOffline = errors.New("offline: remote pull unavailable")

	// ErrRetryExhausted marks an operation dropped after crossing the fixed
	// retry bound. It is logged by the flush loop, never returned to the
	// caller; terminal outcomes surface only in the aggregate counts.
	ErrRetryExhausted = errors.New("retry limit exhausted")
)
