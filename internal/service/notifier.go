package service

import "sync"

// Notifier is the process-wide queue-changed broadcast. Enqueue, each flush
// and queue clearing all emit the same signal, so observers can refresh a
// pending-count indicator without polling.
type Notifier struct {
	mu     sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe registers an observer. The returned channel receives one empty
// struct per queue mutation; the cancel function must be called to release the
// subscription.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++

	ch := make(chan struct{}, 16)
	n.subs[id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if _, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Notify signals every subscriber without blocking: a subscriber whose buffer
// is full misses the signal rather than stalling queue operations.
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
