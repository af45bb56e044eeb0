package irq

import (
	"io"

	"rvos/kernel/kfmt"
)

// sstatus bits relevant to trap return.
const (
	sstatusSPIE = uint64(1) << 5
	sstatusSPP  = uint64(1) << 8
)

// Names of the integer registers in ABI order. Used when dumping a context.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Context describes the full register state captured by the trap entry code.
// Handlers receive a pointer into the trap frame and may mutate it; the
// mutated state is restored when the trap returns.
type Context struct {
	// X holds the integer registers in ABI order. X[0] is always zero.
	X [32]uint64

	SStatus uint64
	SEPC    uint64
	SCause  uint64
	STval   uint64
}

// Cause returns the decoded trap cause for this context.
func (c *Context) Cause() Cause {
	return Cause(c.SCause)
}

// SetReturnAddr points the context at a new resumption address. The trap
// return path will continue execution there.
func (c *Context) SetReturnAddr(addr uint64) {
	c.SEPC = addr
}

// AdvancePC moves the resumption address past the trapping instruction.
// Used by system call and breakpoint handling so the same instruction does
// not trap again on return.
func (c *Context) AdvancePC() {
	c.SEPC += 4
}

// DumpTo outputs the register context to w.
func (c *Context) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "scause : %16x (%s)\n", c.SCause, c.Cause().Type().String())
	kfmt.Fprintf(w, "sepc   : %16x\n", c.SEPC)
	kfmt.Fprintf(w, "stval  : %16x\n", c.STval)
	kfmt.Fprintf(w, "sstatus: %16x\n", c.SStatus)
	for i := 1; i < len(c.X); i += 2 {
		kfmt.Fprintf(w, "%4s   : %16x", regNames[i], c.X[i])
		if i+1 < len(c.X) {
			kfmt.Fprintf(w, "  %4s: %16x", regNames[i+1], c.X[i+1])
		}
		kfmt.Fprintf(w, "\n")
	}
}

// TaskContext holds the callee saved state swapped by TaskSwitch plus the
// values needed to enter the task for the first time.
type TaskContext struct {
	RA uint64
	SP uint64
	S  [12]uint64

	SEPC    uint64
	SStatus uint64
	SATP    uint64
}

// PrepareTaskContext fills in ctx so the first switch into it enters entry
// in user mode with interrupts enabled, running on userStack with the given
// address space. kernelStack is installed as the stack the trap entry code
// switches to when the task traps back into the kernel.
func PrepareTaskContext(ctx *TaskContext, entry, userStack, kernelStack, satp uint64) {
	*ctx = TaskContext{
		RA:   taskEntryTrampoline(),
		SP:   kernelStack,
		SEPC: entry,
		SATP: satp,
	}

	// SPP clear selects user mode on sret; SPIE re-enables interrupts.
	ctx.SStatus = sstatusSPIE
	ctx.S[0] = userStack
}
