package search

import "sync"

// Observable is an ordered collection owned by one producer and read by any
// number of observers. Every mutation bumps the version and closes the channel
// previously handed out by Changed.
type Observable[T any] struct {
	mu      sync.RWMutex
	items   []T
	version uint64
	changed chan struct{}
}

func NewObservable[T any]() *Observable[T] {
	return &Observable[T]{
		items:   make([]T, 0),
		changed: make(chan struct{}),
	}
}

// Snapshot returns a copy of the current items together with their version.
func (o *Observable[T]) Snapshot() ([]T, uint64) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	items := make([]T, len(o.items))
	copy(items, o.items)
	return items, o.version
}

func (o *Observable[T]) Items() []T {
	items, _ := o.Snapshot()
	return items
}

func (o *Observable[T]) Version() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.version
}

func (o *Observable[T]) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.items)
}

// Changed returns a channel that is closed on the next mutation.
func (o *Observable[T]) Changed() <-chan struct{} {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.changed
}

// Replace discards the current contents and stores a copy of items.
func (o *Observable[T]) Replace(items []T) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.items = make([]T, len(items))
	copy(o.items, items)
	o.notifyLocked()
}

func (o *Observable[T]) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.items = make([]T, 0)
	o.notifyLocked()
}

func (o *Observable[T]) notifyLocked() {
	o.version++
	close(o.changed)
	o.changed = make(chan struct{})
}
