package adapter

import "errors"

var (
	// ErrNetwork marks transport failures: the request never produced an
	// HTTP response. Transient; the mutation queue retries these.
	ErrNetwork = errors.New("network error")

	// ErrServer marks 5xx responses. Transient like ErrNetwork.
	ErrServer = errors.New("server error")

	// ErrClient marks 4xx responses. Terminal: retrying cannot fix a
	// validation error, so queued operations are dropped on this class.
	ErrClient = errors.New("client error")
)
