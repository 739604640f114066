package connectivity

import "sync/atomic"

// Fake is a deterministic Monitor for tests: SetOnline drives transitions
// without any real network changes.
type Fake struct {
	*broadcaster
	online atomic.Bool
}

// NewFake returns a Fake monitor starting in the given state.
func NewFake(online bool) *Fake {
	f := &Fake{broadcaster: newBroadcaster()}
	f.online.Store(online)
	return f
}

func (f *Fake) Online() bool {
	return f.online.Load()
}

func (f *Fake) Subscribe() (<-chan State, func()) {
	return f.subscribe()
}

// SetOnline flips the state and notifies subscribers when it actually
// changed.
func (f *Fake) SetOnline(online bool) {
	if f.online.Swap(online) == online {
		return
	}

	state := StateOffline
	if online {
		state = StateOnline
	}
	f.notify(state)
}
