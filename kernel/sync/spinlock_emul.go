//go:build !riscv64

package sync

import (
	"runtime"
	"sync/atomic"
)

// archAcquireSpinlock spins on state until the swap observes the lock free.
// On the host build the backoff yields to the Go scheduler so contending
// goroutines in the test suite make progress.
func archAcquireSpinlock(state *uint32, spinsBeforeBackoff uint32) {
	var spins uint32
	for atomic.SwapUint32(state, 1) != 0 {
		spins++
		if spins == spinsBeforeBackoff {
			spins = 0
			runtime.Gosched()
		}
	}
}
