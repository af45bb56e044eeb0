//go:build !riscv64

package cpu

import "testing"

func resetCSR() {
	emulatedCSR.sstatus = 0
	emulatedCSR.sie = 0
	emulatedCSR.sip = 0
	emulatedCSR.stvec = 0
}

func TestGlobalInterruptEnable(t *testing.T) {
	resetCSR()

	if InterruptsEnabled() {
		t.Fatal("expected interrupts to start disabled")
	}

	if wasEnabled := EnableInterrupts(); wasEnabled {
		t.Fatal("expected EnableInterrupts to report previously disabled")
	}

	if !InterruptsEnabled() {
		t.Fatal("expected interrupts to be enabled")
	}

	if wasEnabled := DisableInterrupts(); !wasEnabled {
		t.Fatal("expected DisableInterrupts to report previously enabled")
	}

	if wasEnabled := DisableInterrupts(); wasEnabled {
		t.Fatal("expected second DisableInterrupts to report previously disabled")
	}
}

func TestRestoreInterrupts(t *testing.T) {
	resetCSR()

	// Restoring a "disabled" snapshot must never enable interrupts.
	RestoreInterrupts(false)
	if InterruptsEnabled() {
		t.Fatal("expected RestoreInterrupts(false) to leave interrupts disabled")
	}

	RestoreInterrupts(true)
	if !InterruptsEnabled() {
		t.Fatal("expected RestoreInterrupts(true) to enable interrupts")
	}

	// Restoring a "disabled" snapshot must not disable interrupts either.
	RestoreInterrupts(false)
	if !InterruptsEnabled() {
		t.Fatal("expected RestoreInterrupts(false) to leave interrupts enabled")
	}
}

func TestPerSourceInterruptControl(t *testing.T) {
	resetCSR()

	irqs := []IRQ{IRQSoft, IRQTimer, IRQExternal}
	for _, irq := range irqs {
		if IRQEnabled(irq) {
			t.Fatalf("expected %s irq to start disabled", irq)
		}

		EnableIRQ(irq)
		if !IRQEnabled(irq) {
			t.Fatalf("expected %s irq to be enabled", irq)
		}
	}

	// Disabling one source must not affect the others.
	DisableIRQ(IRQTimer)
	if IRQEnabled(IRQTimer) {
		t.Fatal("expected timer irq to be disabled")
	}
	if !IRQEnabled(IRQSoft) || !IRQEnabled(IRQExternal) {
		t.Fatal("expected soft and external irqs to remain enabled")
	}
}

func TestSoftInterruptLine(t *testing.T) {
	resetCSR()

	if IRQPending(IRQSoft) {
		t.Fatal("expected soft irq to start clear")
	}

	SetSoftInterrupt()
	if !IRQPending(IRQSoft) {
		t.Fatal("expected soft irq to be pending")
	}
	if IRQPending(IRQTimer) || IRQPending(IRQExternal) {
		t.Fatal("expected timer and external irqs to remain clear")
	}

	ClearSoftInterrupt()
	if IRQPending(IRQSoft) {
		t.Fatal("expected soft irq to be clear")
	}
}

func TestInitTrapVector(t *testing.T) {
	resetCSR()

	specs := []struct {
		mode TrapMode
		exp  uint64
	}{
		{TrapModeDirect, uint64(emulatedTrapVectorBase)},
		{TrapModeVectored, uint64(emulatedTrapVectorBase) | 1},
	}

	for specIndex, spec := range specs {
		InitTrapVector(spec.mode)
		if got := stvecRead(); got != spec.exp {
			t.Errorf("[spec %d] expected stvec to be 0x%x; got 0x%x", specIndex, spec.exp, got)
		}
	}
}
