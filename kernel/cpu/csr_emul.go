//go:build !riscv64

package cpu

import "sync/atomic"

// When compiling for a non-riscv64 target (e.g. when running the test suite
// on a development machine) the privileged CSRs are emulated by an in-memory
// register bank with the same bit semantics as the real hardware. This keeps
// every package that builds on top of the hardware control layer testable
// with go test, following the same function-swapping idiom used for mocking
// elsewhere in the kernel.

// emulatedTrapVectorBase is a 4-byte aligned address standing in for the rt0
// trap entry symbol.
const emulatedTrapVectorBase = uintptr(0x80200000)

var emulatedCSR struct {
	sstatus uint64
	sie     uint64
	sip     uint64
	stvec   uint64
	scause  uint64
	sepc    uint64
	stval   uint64
}

func csrRead(reg *uint64) uint64 { return atomic.LoadUint64(reg) }

func csrWrite(reg *uint64, v uint64) { atomic.StoreUint64(reg, v) }

func csrSet(reg *uint64, bits uint64) {
	for {
		old := atomic.LoadUint64(reg)
		if atomic.CompareAndSwapUint64(reg, old, old|bits) {
			return
		}
	}
}

func csrClear(reg *uint64, bits uint64) {
	for {
		old := atomic.LoadUint64(reg)
		if atomic.CompareAndSwapUint64(reg, old, old&^bits) {
			return
		}
	}
}

func sstatusRead() uint64 { return csrRead(&emulatedCSR.sstatus) }

func sstatusWrite(v uint64) { csrWrite(&emulatedCSR.sstatus, v) }

func sstatusSet(bits uint64) { csrSet(&emulatedCSR.sstatus, bits) }

func sstatusClear(bits uint64) { csrClear(&emulatedCSR.sstatus, bits) }

func sieRead() uint64 { return csrRead(&emulatedCSR.sie) }

func sieSet(bits uint64) { csrSet(&emulatedCSR.sie, bits) }

func sieClear(bits uint64) { csrClear(&emulatedCSR.sie, bits) }

func sipRead() uint64 { return csrRead(&emulatedCSR.sip) }

func sipSet(bits uint64) { csrSet(&emulatedCSR.sip, bits) }

func sipClear(bits uint64) { csrClear(&emulatedCSR.sip, bits) }

func stvecWrite(v uint64) { csrWrite(&emulatedCSR.stvec, v) }

func stvecRead() uint64 { return csrRead(&emulatedCSR.stvec) }

func scauseRead() uint64 { return csrRead(&emulatedCSR.scause) }

func sepcRead() uint64 { return csrRead(&emulatedCSR.sepc) }

func sepcWrite(v uint64) { csrWrite(&emulatedCSR.sepc, v) }

func stvalRead() uint64 { return csrRead(&emulatedCSR.stval) }

func trapVectorBase() uintptr { return emulatedTrapVectorBase }

// halt panics so that an unexpected halt surfaces loudly under emulation.
// Code paths that intentionally halt go through a swappable function variable
// and are mocked by their tests.
func halt() {
	panic("cpu: halt")
}
