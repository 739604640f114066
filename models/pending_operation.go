package models

import (
	"encoding/json"
	"time"
)

// MaxRetries is the fixed upper bound on delivery attempts for a single
// pending operation. An operation whose retry count reaches this bound is
// removed from the queue and counted as failed.
const MaxRetries = 5

// PendingOperation is one durably queued write operation awaiting delivery to
// the remote API. Operations are created by application code while offline (or
// as a fallback after a failed direct call), replayed by the queue's flush in
// creation order, and deleted on any terminal outcome. There are no
// tombstones.
type PendingOperation struct {
	// ID is a UUIDv7: time-ordered with a random suffix, so rapid enqueues
	// sort by creation time and never collide.
	ID string `json:"id"`
	// Kind tags the operation for application-level filtering.
	Kind string `json:"kind"`
	// Endpoint is the remote API path the operation targets.
	Endpoint string `json:"endpoint"`
	// Method is the HTTP method recorded at enqueue time.
	Method string `json:"method"`
	// Payload is the opaque request body.
	Payload json.RawMessage `json:"payload,omitempty"`
	// CreatedAt orders replay; ties are broken by ID.
	CreatedAt time.Time `json:"created_at"`
	// RetryCount is monotonically non-decreasing, bounded by MaxRetries.
	RetryCount int `json:"retry_count"`
}

// FlushResult aggregates the outcome of one flush over the queue.
type FlushResult struct {
	// Success counts operations delivered with a 2xx response.
	Success int `json:"success"`
	// Failed counts terminal failures: non-retryable client errors and
	// operations that crossed the retry bound.
	Failed int `json:"failed"`
	// Remaining counts operations still queued after the flush.
	Remaining int `json:"remaining"`
}
