//go:build !riscv64

package irq

// When not targeting riscv64 the context switch entry points only record
// their arguments so the logic built on top of them can be tested with the
// regular Go tool chain.

var (
	lastSavedContext    *Context
	lastRestoredContext *Context
	lastSwitchPrev      *TaskContext
	lastSwitchNext      *TaskContext
)

const emulatedTaskTrampoline = 0x80201000

// SaveFullContext stores the current register state into ctx.
func SaveFullContext(ctx *Context) {
	lastSavedContext = ctx
}

// RestoreFullContext reloads the register state from ctx and resumes at its
// return address.
func RestoreFullContext(ctx *Context) {
	lastRestoredContext = ctx
}

// TaskSwitch saves the callee saved registers into prev and restores them
// from next.
func TaskSwitch(prev, next *TaskContext) {
	lastSwitchPrev, lastSwitchNext = prev, next
}

func taskEntryTrampoline() uint64 {
	return emulatedTaskTrampoline
}
