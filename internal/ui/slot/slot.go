// Package slot owns window handles that may exist at most once at a time.
package slot

import "sync"

// Slot holds zero or one live value.
type Slot[T any] struct {
	mu      sync.Mutex
	current T
	live    bool
}

// Acquire returns the live value, or stores and returns the one built by
// create. created reports whether create ran.
func (slot *Slot[T]) Acquire(create func() T) (value T, created bool) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.live {
		return slot.current, false
	}
	slot.current = create()
	slot.live = true
	return slot.current, true
}

// Get returns the live value if any.
func (slot *Slot[T]) Get() (T, bool) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.current, slot.live
}

// Release empties the slot and returns what it held.
func (slot *Slot[T]) Release() (T, bool) {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	value, live := slot.current, slot.live
	var zero T
	slot.current = zero
	slot.live = false
	return value, live
}

// ReleaseIf empties the slot only while it still holds value, so a stale
// close callback cannot clear a newer window.
func (slot *Slot[T]) ReleaseIf(match func(T) bool) bool {
	slot.mu.Lock()
	defer slot.mu.Unlock()
	if !slot.live || !match(slot.current) {
		return false
	}
	var zero T
	slot.current = zero
	slot.live = false
	return true
}
