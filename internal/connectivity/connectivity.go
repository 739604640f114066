// SPDX-License-Identifier: Apache-2.0

// Package connectivity observes transitions between online and offline. The
// platform signal is environment-specific, so the package exposes a small
// Monitor interface with a real HTTP-probe implementation and a deterministic
// fake for tests.
package connectivity

import "sync"

// State is the observed connectivity state. StateRecovering is reported by
// the orchestrator while the automatic reconnect flush is in flight; monitors
// themselves only ever report Online or Offline.
type State int

const (
	StateOffline State = iota
	StateOnline
	StateRecovering
)

func (s State) String() string {
	switch s {
	case StateOffline:
		return "offline"
	case StateOnline:
		return "online"
	case StateRecovering:
		return "recovering"
	default:
		return "unknown"
	}
}

// Monitor is the connectivity signal source. Subscribe returns a channel that
// receives the new state on every transition plus a cancel function; the
// channel is buffered and transitions are never blocked on slow receivers.
type Monitor interface {
	Online() bool
	Subscribe() (<-chan State, func())
}

// broadcaster implements the shared subscribe/notify bookkeeping for
// monitors.
type broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan State
	nextID int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]chan State)}
}

func (b *broadcaster) subscribe() (<-chan State, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan State, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

func (b *broadcaster) notify(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- s:
		default: // slow receiver, drop rather than block the signal source
		}
	}
}
