package irq

import (
	"sync/atomic"

	"rvos/kernel"
)

// DefaultMaxNestDepth is the number of trap frames that can be outstanding
// at once before further traps are refused.
const DefaultMaxNestDepth = 8

var (
	// ErrStackOverflow is returned when a trap arrives while the nesting
	// stack is already full. This indicates an interrupt storm or a handler
	// that keeps re-triggering its own trap.
	ErrStackOverflow = &kernel.Error{Module: "irq", Message: "trap nesting stack overflow"}

	// ErrStackUnderflow is returned when a trap exit is recorded without a
	// matching entry. This is always a kernel logic error.
	ErrStackUnderflow = &kernel.Error{Module: "irq", Message: "trap nesting stack underflow"}

	nestDepth    int32
	maxNestDepth = int32(DefaultMaxNestDepth)
	nestStack    [DefaultMaxNestDepth]*Context
)

// EnterTrap records entry into a trap frame and pushes ctx onto the nesting
// stack. It returns ErrStackOverflow when the maximum nesting depth has been
// reached, in which case the depth is left unchanged.
func EnterTrap(ctx *Context) *kernel.Error {
	depth := atomic.AddInt32(&nestDepth, 1)
	if depth > atomic.LoadInt32(&maxNestDepth) {
		atomic.AddInt32(&nestDepth, -1)
		return ErrStackOverflow
	}

	nestStack[depth-1] = ctx
	return nil
}

// ExitTrap records exit from the innermost trap frame. Frames are strictly
// LIFO; the popped context is the one pushed by the matching EnterTrap.
func ExitTrap() *kernel.Error {
	depth := atomic.LoadInt32(&nestDepth)
	if depth == 0 {
		return ErrStackUnderflow
	}

	nestStack[depth-1] = nil
	atomic.AddInt32(&nestDepth, -1)
	return nil
}

// InTrapContext returns true while at least one trap frame is outstanding.
func InTrapContext() bool {
	return atomic.LoadInt32(&nestDepth) > 0
}

// NestLevel returns the number of outstanding trap frames.
func NestLevel() int {
	return int(atomic.LoadInt32(&nestDepth))
}

// CurrentContext returns the context of the innermost outstanding trap frame
// or nil when no trap is in progress.
func CurrentContext() *Context {
	depth := atomic.LoadInt32(&nestDepth)
	if depth == 0 {
		return nil
	}

	return nestStack[depth-1]
}

// SetMaxNestDepth adjusts the nesting limit. Values outside [1,
// DefaultMaxNestDepth] are clamped to the stack capacity.
func SetMaxNestDepth(depth int) {
	if depth < 1 {
		depth = 1
	} else if depth > DefaultMaxNestDepth {
		depth = DefaultMaxNestDepth
	}

	atomic.StoreInt32(&maxNestDepth, int32(depth))
}
