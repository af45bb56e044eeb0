// Package irq provides the low level trap primitives for the kernel: the
// decoded trap cause, the register context captured on entry, the nesting
// bookkeeping for re-entrant traps and the task context switch shims.
package irq

import "rvos/kernel/cpu"

// TrapType classifies a decoded scause value into one of the trap sources
// the kernel knows how to dispatch on.
type TrapType uint8

const (
	TrapUnknown TrapType = iota
	TrapSoftwareInterrupt
	TrapTimerInterrupt
	TrapExternalInterrupt
	TrapInstrMisaligned
	TrapInstrAccessFault
	TrapIllegalInstruction
	TrapBreakpoint
	TrapLoadMisaligned
	TrapLoadAccessFault
	TrapStoreMisaligned
	TrapStoreAccessFault
	TrapSystemCall
	TrapInstrPageFault
	TrapLoadPageFault
	TrapStorePageFault

	// NumTrapTypes is the number of distinct trap types; it sizes the
	// dispatch tables built on top of this package.
	NumTrapTypes = int(TrapStorePageFault) + 1
)

// String implements fmt.Stringer for TrapType.
func (t TrapType) String() string {
	switch t {
	case TrapSoftwareInterrupt:
		return "software interrupt"
	case TrapTimerInterrupt:
		return "timer interrupt"
	case TrapExternalInterrupt:
		return "external interrupt"
	case TrapInstrMisaligned:
		return "instruction address misaligned"
	case TrapInstrAccessFault:
		return "instruction access fault"
	case TrapIllegalInstruction:
		return "illegal instruction"
	case TrapBreakpoint:
		return "breakpoint"
	case TrapLoadMisaligned:
		return "load address misaligned"
	case TrapLoadAccessFault:
		return "load access fault"
	case TrapStoreMisaligned:
		return "store address misaligned"
	case TrapStoreAccessFault:
		return "store access fault"
	case TrapSystemCall:
		return "system call"
	case TrapInstrPageFault:
		return "instruction page fault"
	case TrapLoadPageFault:
		return "load page fault"
	case TrapStorePageFault:
		return "store page fault"
	}

	return "unknown"
}

// IsInterrupt returns true for asynchronous trap types.
func (t TrapType) IsInterrupt() bool {
	switch t {
	case TrapSoftwareInterrupt, TrapTimerInterrupt, TrapExternalInterrupt:
		return true
	}

	return false
}

const causeInterruptBit = uint64(1) << 63

// Cause wraps a raw scause value. The top bit selects between interrupts
// and exceptions; the remaining bits hold the cause code.
type Cause uint64

// IsInterrupt returns true if the cause describes an asynchronous interrupt.
func (c Cause) IsInterrupt() bool {
	return uint64(c)&causeInterruptBit != 0
}

// Code returns the cause code with the interrupt bit stripped.
func (c Cause) Code() uint64 {
	return uint64(c) &^ causeInterruptBit
}

// Type decodes the cause into a TrapType. Reserved or unrecognized cause
// codes map to TrapUnknown.
func (c Cause) Type() TrapType {
	code := c.Code()

	if c.IsInterrupt() {
		switch cpu.IRQ(code) {
		case cpu.IRQSoft:
			return TrapSoftwareInterrupt
		case cpu.IRQTimer:
			return TrapTimerInterrupt
		case cpu.IRQExternal:
			return TrapExternalInterrupt
		}

		return TrapUnknown
	}

	switch code {
	case 0:
		return TrapInstrMisaligned
	case 1:
		return TrapInstrAccessFault
	case 2:
		return TrapIllegalInstruction
	case 3:
		return TrapBreakpoint
	case 4:
		return TrapLoadMisaligned
	case 5:
		return TrapLoadAccessFault
	case 6:
		return TrapStoreMisaligned
	case 7:
		return TrapStoreAccessFault
	case 8:
		return TrapSystemCall
	case 12:
		return TrapInstrPageFault
	case 13:
		return TrapLoadPageFault
	case 15:
		return TrapStorePageFault
	}

	return TrapUnknown
}
