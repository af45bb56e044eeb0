// Package kmain contains the kernel entry point that runs after the rt0
// assembly code has set up a stack and cleared the BSS.
package kmain

import (
	"rvos/kernel/console"
	"rvos/kernel/cpu"
	"rvos/kernel/irq"
	"rvos/kernel/kfmt"
	"rvos/kernel/sbi"
	"rvos/kernel/trap"
)

// timerInterval is the number of time counter ticks between timer
// interrupts. With the qemu virt machine's 10MHz timebase this is 100ms.
const timerInterval = 1000000

// Kmain is the only Go entrypoint invoked by the rt0 assembly code. It
// wires the console to the kernel log, brings up the trap system and then
// parks the boot hart in an idle loop. Kmain does not return.
func Kmain() {
	kfmt.SetOutputSink(&kfmt.PrefixWriter{
		Prefix: []byte("[rvos] "),
		Sink:   console.Writer{},
	})

	kfmt.Printf("kernel starting\n")
	kfmt.Printf("sbi: spec version %x, impl %d version %x\n",
		sbi.SpecVersion(), sbi.ImplID(), sbi.ImplVersion())
	kfmt.Printf("machine: vendor %x, arch %x, impl %x\n",
		sbi.MVendorID(), sbi.MArchID(), sbi.MImpID())

	if err := trap.Init(cpu.TrapModeDirect); err != nil {
		kfmt.Panic(err)
	}

	if err := trap.RegisterSystemHandler(irq.TrapTimerInterrupt, timerTick, 50, "kernel timer"); err != nil {
		kfmt.Panic(err)
	}

	sbi.SetTimer(sbi.GetTime() + timerInterval)
	trap.EnableIRQ(cpu.IRQTimer)
	trap.EnableIRQ(cpu.IRQSoft)
	trap.EnableInterrupts()

	kfmt.Printf("boot complete, entering idle loop\n")
	for {
		cpu.Halt()
	}
}

// timerTick services the periodic timer interrupt. Programming the next
// deadline also clears the pending timer interrupt.
func timerTick(*irq.Context) trap.Result {
	sbi.SetTimer(sbi.GetTime() + timerInterval)
	return trap.Handled
}
