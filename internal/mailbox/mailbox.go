// Package mailbox implements a single-slot, latest-value, non-blocking
// mailbox: concurrent writers racing to Send are linearized by the
// slot — the last writer before the reader observes it wins, and an
// overwritten value is simply gone (its sender sees that as a dropped
// command, never a queued one). This is the Controller Driver's
// "command slot" from the design: one publisher side can be called
// from many goroutines, one consumer drains it in a loop.
package mailbox

import "sync"

// Mailbox carries values of type T between any number of senders and
// a single consumer loop.
type Mailbox[T any] struct {
	mu       sync.Mutex
	value    T
	hasValue bool
	notify   chan struct{}
	closed   bool
}

// New creates an empty, open Mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{})}
}

// Send overwrites the slot with v and wakes the consumer. It never
// blocks. Send on a closed Mailbox is a no-op; the value is dropped.
func (m *Mailbox[T]) Send(v T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.value = v
	m.hasValue = true
	close(m.notify)
	m.notify = make(chan struct{})
}

// Swap overwrites the slot with v, exactly like Send, but also returns
// whatever value was pending (if any) so the caller can react to it —
// e.g. notify whoever sent it that it was dropped in favor of v. Swap
// on a closed Mailbox is a no-op, same as Send.
func (m *Mailbox[T]) Swap(v T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		var zero T
		return zero, false
	}
	old, hadValue := m.value, m.hasValue
	m.value = v
	m.hasValue = true
	close(m.notify)
	m.notify = make(chan struct{})
	return old, hadValue
}

// Close marks the mailbox closed. Any consumer blocked in Receive
// wakes with ok=false once the current slot (if any) has been
// drained; further Sends are dropped.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.notify)
	m.notify = make(chan struct{})
}

// Receive blocks until a value is available, the mailbox is closed and
// drained, or ctxDone fires. ok is false only once the mailbox is
// closed and no value remains to deliver.
func (m *Mailbox[T]) Receive(ctxDone <-chan struct{}) (T, bool) {
	for {
		m.mu.Lock()
		if m.hasValue {
			v := m.value
			m.hasValue = false
			var zero T
			m.value = zero
			m.mu.Unlock()
			return v, true
		}
		if m.closed {
			m.mu.Unlock()
			var zero T
			return zero, false
		}
		wait := m.notify
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctxDone:
			var zero T
			return zero, false
		}
	}
}
