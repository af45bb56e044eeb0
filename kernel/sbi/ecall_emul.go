//go:build !riscv64

package sbi

import "sync/atomic"

// When not targeting riscv64 the firmware is emulated so the packages above
// this one can be exercised by the regular Go tool chain. Console output is
// discarded, the time counter advances on every read and reset requests are
// latched instead of taking the system down.

var (
	emulatedTime  uint64
	lastResetType uint32
	lastResetWhy  uint32
	resetRequests uint32
)

func sbiCall(ext, fn, arg0, arg1, arg2 uintptr) (err, val uintptr) {
	switch ext {
	case extLegacyGetc:
		return 0, ^uintptr(0)
	case extSRST:
		atomic.StoreUint32(&lastResetType, uint32(arg0))
		atomic.StoreUint32(&lastResetWhy, uint32(arg1))
		atomic.AddUint32(&resetRequests, 1)
	}

	return 0, 0
}

func readTime() uint64 {
	return atomic.AddUint64(&emulatedTime, 1)
}
