// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Start launches the worker's background goroutine and returns immediately;
// the goroutine exits when ctx is cancelled or Stop is called. Stop blocks
// until the goroutine has fully exited and is safe to call when the worker is
// not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
