// Package cell implements observable single-value containers and the
// storage-mirrored cells built on them.
package cell

import "sync"

// Cell is a mutable value with subscribers. Subscribers are called with the
// current value when they subscribe and again after every Set.
//
// Notifications are delivered one at a time, in the order the values were
// set. A Set made while another goroutine (or a subscriber) is delivering is
// queued and delivered by that caller, so it may return before its own
// subscribers have run. Once every Set has returned, each subscriber has
// seen the value Get reports last.
type Cell[T any] struct {
	mu       sync.Mutex
	value    T
	subs     []subscriber[T]
	nextID   int
	pending  []notification[T]
	draining bool
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

type notification[T any] struct {
	fn func(T)
	v  T
}

// New returns a cell holding v.
func New[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Get returns the current value.
func (c *Cell[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Set replaces the value and notifies subscribers in subscription order.
// Subscribers run outside the lock and may call Set themselves.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	c.value = v
	for _, s := range c.subs {
		c.pending = append(c.pending, notification[T]{fn: s.fn, v: v})
	}
	c.drainLocked()
}

// Update sets the value to fn applied to the current value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Set(fn(c.Get()))
}

// Subscribe registers fn and calls it with the current value. The returned
// function removes the subscription.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.pending = append(c.pending, notification[T]{fn: fn, v: c.value})
	c.drainLocked()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// drainLocked delivers pending notifications unless another caller already
// is. It is entered with c.mu held and returns with it released.
func (c *Cell[T]) drainLocked() {
	if c.draining {
		c.mu.Unlock()
		return
	}
	c.draining = true
	for len(c.pending) > 0 {
		n := c.pending[0]
		c.pending = c.pending[1:]
		c.mu.Unlock()
		n.fn(n.v)
		c.mu.Lock()
	}
	c.draining = false
	c.mu.Unlock()
}
