// Package sync provides synchronization primitives for serializing access to
// state that is shared between cores and trap handlers.
package sync

import "sync/atomic"

// spinsBeforeBackoff defines the number of failed acquisition attempts before
// the arch-specific acquire routine backs off to reduce cache-line contention
// between cores spinning on the same lock.
const spinsBeforeBackoff = 64

// Spinlock implements a lock where each core trying to acquire it busy-waits
// till the lock becomes available. A spinlock must never be held across a call
// that can itself trap, and interrupts must never be disabled while holding a
// lock that a trap handler might also need.
type Spinlock struct {
	state uint32
}

// Acquire blocks until the lock can be acquired by the caller. Any attempt to
// re-acquire a lock already held by the caller will cause a deadlock.
func (l *Spinlock) Acquire() {
	archAcquireSpinlock(&l.state, spinsBeforeBackoff)
}

// TryToAcquire attempts to acquire the lock and returns true if the lock could
// be acquired or false otherwise.
func (l *Spinlock) TryToAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release relinquishes a held lock allowing other cores to acquire it. Calling
// Release while the lock is free has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}
