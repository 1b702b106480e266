package service

import "sync"

// notifier lets the presentation layer subscribe to store changes instead
// of the stores assuming a reactive re-render. Listeners only signal "state
// changed"; subscribers re-read whatever they need.
type notifier struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func (n *notifier) subscribe(fn func()) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.listeners == nil {
		n.listeners = make(map[int]func())
	}
	id := n.nextID
	n.nextID++
	n.listeners[id] = fn

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.listeners, id)
	}
}

// notify runs listeners outside the caller's state lock; callers must not
// hold their mutex when invoking it.
func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.listeners))
	for _, fn := range n.listeners {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
