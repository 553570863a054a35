package state

import (
	"slices"
	"sync"
)

// Value is an observable cell. Set notifies subscribers only when the value
// changes. Changes are delivered one at a time in the order they were stored,
// so the last value a listener receives is always the current one. A Set made
// while another delivery is running, from a listener or another goroutine, is
// queued and delivered by the goroutine already delivering.
type Value[T comparable] struct {
	mu         sync.RWMutex
	current    T
	nextID     int
	listeners  map[int]func(T)
	pending    []T
	delivering bool
}

func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{current: initial, listeners: make(map[int]func(T))}
}

func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set stores next and reports whether it differed from the previous value.
func (v *Value[T]) Set(next T) bool {
	return v.Update(func(T) T { return next })
}

// Update replaces the value with fn(current) atomically and notifies on change.
func (v *Value[T]) Update(fn func(T) T) bool {
	v.mu.Lock()
	next := fn(v.current)
	if next == v.current {
		v.mu.Unlock()
		return false
	}
	v.current = next
	v.pending = append(v.pending, next)
	if v.delivering {
		v.mu.Unlock()
		return true
	}
	v.delivering = true
	v.mu.Unlock()

	v.deliver()
	return true
}

func (v *Value[T]) deliver() {
	finished := false
	defer func() {
		// A panicking listener drops the rest of the queue.
		if !finished {
			v.mu.Lock()
			v.pending = nil
			v.delivering = false
			v.mu.Unlock()
		}
	}()

	for {
		v.mu.Lock()
		if len(v.pending) == 0 {
			v.delivering = false
			v.mu.Unlock()
			finished = true
			return
		}
		next := v.pending[0]
		v.pending = v.pending[1:]
		fns := v.snapshot()
		v.mu.Unlock()

		for _, fn := range fns {
			fn(next)
		}
	}
}

func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.listeners, id)
			v.mu.Unlock()
		})
	}
}

func (v *Value[T]) snapshot() []func(T) {
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	fns := make([]func(T), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, v.listeners[id])
	}
	return fns
}
