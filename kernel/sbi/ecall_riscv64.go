//go:build riscv64

package sbi

// The following functions are implemented by the rt0 assembly code.

// sbiCall performs an ecall into the firmware with the given extension and
// function identifiers and up to three arguments. It returns the error and
// value registers of the SBI calling convention.
func sbiCall(ext, fn, arg0, arg1, arg2 uintptr) (err, val uintptr)

// readTime reads the time CSR.
func readTime() uint64
