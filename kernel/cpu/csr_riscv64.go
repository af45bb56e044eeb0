//go:build riscv64

package cpu

// The bodies for the following functions are provided by the rt0 assembly
// code which is linked together with the kernel image. Each function is a
// thin wrapper around the matching csrr/csrs/csrc/csrw instruction.

func sstatusRead() uint64

func sstatusWrite(v uint64)

func sstatusSet(bits uint64)

func sstatusClear(bits uint64)

func sieRead() uint64

func sieSet(bits uint64)

func sieClear(bits uint64)

func sipRead() uint64

func sipSet(bits uint64)

func sipClear(bits uint64)

func stvecWrite(v uint64)

func stvecRead() uint64

func scauseRead() uint64

func sepcRead() uint64

func sepcWrite(v uint64)

func stvalRead() uint64

// trapVectorBase returns the address of the shared trap entry point defined
// in the rt0 assembly code.
func trapVectorBase() uintptr

// halt executes wfi in a loop and never returns.
func halt()
