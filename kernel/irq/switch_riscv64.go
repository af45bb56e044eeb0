//go:build riscv64

package irq

// The following functions are implemented by the rt0 assembly code.

// SaveFullContext stores the current register state into ctx.
func SaveFullContext(ctx *Context)

// RestoreFullContext reloads the register state from ctx and resumes at its
// return address. It does not return to the caller.
func RestoreFullContext(ctx *Context)

// TaskSwitch saves the callee saved registers into prev and restores them
// from next, switching address spaces if the contexts disagree on satp.
func TaskSwitch(prev, next *TaskContext)

// taskEntryTrampoline returns the address of the assembly stub that performs
// the first entry into a freshly prepared task context.
func taskEntryTrampoline() uint64
