// Package debounce suppresses propagation of rapidly changing values until
// a quiet period elapses.
package debounce

import (
	"sync"
	"time"
)

// Value holds a debounced value of type T. Set schedules the new value to
// be committed after the quiescence window; any Set before the window
// elapses cancels the pending commit and re-arms it. Only the most recent
// pending value matters. Safe for concurrent use.
type Value[T any] struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	pending T
	armed   bool
	gen     uint64

	committed T

	subs    map[int]func(T)
	nextSub int
}

// NewValue creates a debounced value with the given initial committed value
// and quiescence window.
func NewValue[T any](initial T, window time.Duration) *Value[T] {
	return &Value[T]{
		window:    window,
		committed: initial,
		subs:      make(map[int]func(T)),
	}
}

// Set schedules v to become the committed value once the window elapses
// without another Set.
func (d *Value[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = v
	d.armed = true

	// Stop is a no-op when the old timer has already fired; the generation
	// check in commit keeps that stale firing from cutting the new value's
	// window short.
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.commit(gen) })
}

// Get returns the most recently committed value.
func (d *Value[T]) Get() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committed
}

// Flush commits any pending value immediately.
func (d *Value[T]) Flush() {
	d.mu.Lock()
	fns, value, ok := d.commitLocked()
	d.mu.Unlock()
	if ok {
		notify(fns, value)
	}
}

// Cancel drops any pending value without committing it.
func (d *Value[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.armed = false
	d.gen++
}

// Subscribe registers fn to be called with each newly committed value.
// The returned function removes the subscription.
func (d *Value[T]) Subscribe(fn func(T)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.subs, id)
	}
}

// commit runs when the timer armed for generation gen fires. A later Set or
// Cancel bumps the generation, which turns the stale firing into a no-op.
func (d *Value[T]) commit(gen uint64) {
	d.mu.Lock()
	if gen != d.gen {
		d.mu.Unlock()
		return
	}
	fns, value, ok := d.commitLocked()
	d.mu.Unlock()
	if ok {
		notify(fns, value)
	}
}

func (d *Value[T]) commitLocked() ([]func(T), T, bool) {
	if !d.armed {
		var zero T
		return nil, zero, false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.committed = d.pending
	d.armed = false
	d.gen++

	fns := make([]func(T), 0, len(d.subs))
	for _, fn := range d.subs {
		fns = append(fns, fn)
	}
	return fns, d.committed, true
}

// notify runs outside the lock so subscribers may call back into the store.
func notify[T any](fns []func(T), value T) {
	for _, fn := range fns {
		fn(value)
	}
}

// Func returns a trigger that invokes fn after the window elapses without
// another trigger call, following the same cancel-and-reschedule rule as
// Value.Set.
func Func(window time.Duration, fn func()) func() {
	var mu sync.Mutex
	var timer *time.Timer

	return func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(window, fn)
	}
}
