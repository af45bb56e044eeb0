//go:build riscv64

package sync

// archAcquireSpinlock is implemented by the rt0 assembly code. It spins on
// state with an atomic swap, issuing a pause hint after spinsBeforeBackoff
// failed attempts.
func archAcquireSpinlock(state *uint32, spinsBeforeBackoff uint32)
