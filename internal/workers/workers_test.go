package workers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeWorker tracks lifecycle calls for the aggregate tests.
type fakeWorker struct {
	id      int
	started *[]int
	stopped *[]int
}

func (f *fakeWorker) Start(context.Context) { *f.started = append(*f.started, f.id) }
func (f *fakeWorker) Stop()                 { *f.stopped = append(*f.stopped, f.id) }

func TestWorkers_StartStopOrder(t *testing.T) {
	var started, stopped []int

	newWorker := func(id int) Worker {
		return &fakeWorker{id: id, started: &started, stopped: &stopped}
	}

	ws := NewWorkers(newWorker(1), newWorker(2), newWorker(3))

	ws.Start(context.Background())
	assert.Equal(t, []int{1, 2, 3}, started)

	ws.Stop()
	assert.Equal(t, []int{3, 2, 1}, stopped, "stop runs in reverse order")
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	// No panic with nothing registered.
	ws.Start(context.Background())
	ws.Stop()
}
