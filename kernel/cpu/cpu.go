// Package cpu provides access to the privileged RISC-V supervisor CSRs that
// control trap vectoring and interrupt delivery. It is the only package that
// is allowed to touch the interrupt-enable and interrupt-pending bits.
//
// None of the functions in this package perform any locking. Callers must
// serialize access externally (e.g. by holding the trap system lock or by
// running with interrupts disabled) to avoid read-modify-write races on the
// enable bits between two harts or between a writer and a nested trap.
package cpu

// TrapMode selects how the CPU locates the trap entry point.
type TrapMode uint8

const (
	// TrapModeDirect routes all traps to a single shared entry point.
	TrapModeDirect = TrapMode(0)

	// TrapModeVectored is reserved; this kernel routes vectored traps
	// through the same shared entry point.
	TrapModeVectored = TrapMode(1)
)

// String implements fmt.Stringer for TrapMode.
func (m TrapMode) String() string {
	if m == TrapModeVectored {
		return "vectored"
	}
	return "direct"
}

// IRQ describes one of the interrupt sources that can be delegated to
// supervisor mode. The values match the interrupt codes reported in scause.
type IRQ uint8

const (
	// IRQSoft is the supervisor software interrupt, used for inter-hart
	// and inter-context signaling.
	IRQSoft = IRQ(1)

	// IRQTimer is the supervisor timer interrupt.
	IRQTimer = IRQ(5)

	// IRQExternal is the supervisor external interrupt, raised by the
	// platform interrupt controller.
	IRQExternal = IRQ(9)
)

// String implements fmt.Stringer for IRQ.
func (irq IRQ) String() string {
	switch irq {
	case IRQSoft:
		return "soft"
	case IRQTimer:
		return "timer"
	case IRQExternal:
		return "external"
	}
	return "unknown"
}

const (
	// sstatus.SIE: global supervisor interrupt enable.
	sstatusSIE = uint64(1) << 1

	// stvec mode selector mask (low 2 bits of the register).
	stvecModeMask = uint64(3)
)

// bit returns the sie/sip bit that corresponds to this interrupt source.
func (irq IRQ) bit() uint64 {
	return uint64(1) << irq
}

// InitTrapVector writes the trap entry address, aligned down to a 4-byte
// boundary and OR'd with the requested mode selector, into stvec.
func InitTrapVector(mode TrapMode) {
	stvecWrite((uint64(trapVectorBase()) &^ stvecModeMask) | uint64(mode))
}

// EnableInterrupts sets the global interrupt-enable bit and returns the
// previous state so callers can restore it later.
func EnableInterrupts() bool {
	wasEnabled := sstatusRead()&sstatusSIE != 0
	sstatusSet(sstatusSIE)
	return wasEnabled
}

// DisableInterrupts clears the global interrupt-enable bit and returns the
// previous state so callers can restore it later.
func DisableInterrupts() bool {
	wasEnabled := sstatusRead()&sstatusSIE != 0
	sstatusClear(sstatusSIE)
	return wasEnabled
}

// RestoreInterrupts re-enables interrupts only if wasEnabled is true. It never
// disables interrupts; pairing it with DisableInterrupts implements the
// classic save/restore idiom.
func RestoreInterrupts(wasEnabled bool) {
	if wasEnabled {
		sstatusSet(sstatusSIE)
	}
}

// InterruptsEnabled returns the current state of the global interrupt-enable
// bit.
func InterruptsEnabled() bool {
	return sstatusRead()&sstatusSIE != 0
}

// EnableIRQ enables delivery of the given interrupt source.
func EnableIRQ(irq IRQ) {
	sieSet(irq.bit())
}

// DisableIRQ disables delivery of the given interrupt source.
func DisableIRQ(irq IRQ) {
	sieClear(irq.bit())
}

// IRQEnabled returns true if delivery of the given interrupt source is
// enabled.
func IRQEnabled(irq IRQ) bool {
	return sieRead()&irq.bit() != 0
}

// IRQPending returns true if the given interrupt source is pending.
func IRQPending(irq IRQ) bool {
	return sipRead()&irq.bit() != 0
}

// SetSoftInterrupt raises the supervisor software interrupt line.
func SetSoftInterrupt() {
	sipSet(IRQSoft.bit())
}

// ClearSoftInterrupt acknowledges the supervisor software interrupt line.
func ClearSoftInterrupt() {
	sipClear(IRQSoft.bit())
}

// ReadSstatus returns the raw value of the sstatus register.
func ReadSstatus() uint64 { return sstatusRead() }

// WriteSstatus overwrites the sstatus register.
func WriteSstatus(v uint64) { sstatusWrite(v) }

// ReadSCause returns the raw value of the scause register.
func ReadSCause() uint64 { return scauseRead() }

// ReadSEPC returns the raw value of the sepc register.
func ReadSEPC() uint64 { return sepcRead() }

// WriteSEPC overwrites the sepc register.
func WriteSEPC(v uint64) { sepcWrite(v) }

// ReadSTVal returns the raw value of the stval register.
func ReadSTVal() uint64 { return stvalRead() }

// Halt stops instruction execution on the current hart.
func Halt() {
	halt()
}
