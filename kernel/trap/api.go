package trap

import (
	"io"

	"rvos/kernel"
	"rvos/kernel/cpu"
	"rvos/kernel/irq"
)

// Registration describes a trap handler to be added to the dispatch table.
type Registration struct {
	Type        irq.TrapType
	Handler     HandlerFunc
	Priority    uint8
	Description string
	Protection  ProtectionLevel

	// Registrar identifies the caller; SystemRegistrar is reserved for
	// kernel subsystems. Context ties the handler to an execution
	// context for bulk removal, KernelContext for none.
	Registrar RegistrarID
	Context   ContextID
}

// Register adds a trap handler. Handlers on the same trap type dispatch in
// ascending priority order; equal priorities dispatch in registration
// order.
func Register(r Registration) *kernel.Error {
	if !isInitialized() {
		return ErrNotInitialized
	}

	entry := handlerEntry{
		fn:          r.Handler,
		priority:    r.Priority,
		description: r.Description,
		protection:  r.Protection,
		registrar:   r.Registrar,
		context:     r.Context,
	}

	system.mu.Acquire()
	err := system.handlers.register(r.Type, entry)
	system.mu.Release()
	return err
}

// RegisterSystemHandler adds a kernel owned, system protected handler.
func RegisterSystemHandler(tt irq.TrapType, fn HandlerFunc, priority uint8, description string) *kernel.Error {
	return Register(Registration{
		Type:        tt,
		Handler:     fn,
		Priority:    priority,
		Description: description,
		Protection:  ProtectionSystem,
		Registrar:   SystemRegistrar,
		Context:     KernelContext,
	})
}

// Unregister removes the handler for tt with the given description on
// behalf of registrar. System protected handlers can only be removed by
// SystemRegistrar; user handlers only by the registrar that added them.
func Unregister(tt irq.TrapType, description string, registrar RegistrarID) *kernel.Error {
	if !isInitialized() {
		return ErrNotInitialized
	}

	system.mu.Acquire()
	err := system.handlers.unregister(tt, description, registrar)
	system.mu.Release()
	return err
}

// UnregisterContext removes every handler tied to ctx that registrar may
// remove and returns the number of removed handlers. Called when an
// execution context is torn down.
func UnregisterContext(ctx ContextID, registrar RegistrarID) int {
	if !isInitialized() {
		return 0
	}

	system.mu.Acquire()
	removed := system.handlers.unregisterContext(ctx, registrar)
	system.mu.Release()
	return removed
}

// HandlerCount returns the number of handlers chained on tt.
func HandlerCount(tt irq.TrapType) int {
	if !isInitialized() {
		return 0
	}

	system.mu.Acquire()
	count := system.handlers.count(tt)
	system.mu.Release()
	return count
}

// PrintHandlers writes a listing of all registered trap handlers to w.
func PrintHandlers(w io.Writer) {
	if !isInitialized() {
		return
	}

	system.mu.Acquire()
	system.handlers.dumpTo(w)
	system.mu.Release()
}

// HandleTrap is the Go entry point of the trap path: the assembly entry
// stub builds ctx and calls it. It tracks nesting, dispatches to the
// handler chain and applies the per-category fallbacks.
func HandleTrap(ctx *irq.Context) {
	if !isInitialized() {
		return
	}

	if err := irq.EnterTrap(ctx); err != nil {
		// Nesting overflow means an interrupt storm or a handler that
		// keeps faulting. Treat as fatal.
		system.handleError(NewErrorAt(SourceInterrupt, SeverityFatal, uint16(ctx.Cause().Type()), 0, ctx.SEPC))
		return
	}

	system.handleTrap(ctx)
	irq.ExitTrap()
}

// ErrorRegistration describes an error handler to be added to the error
// manager chain. A present filter restricts the handler to errors with the
// matching source or severity.
type ErrorRegistration struct {
	Handler     ErrorHandlerFunc
	Priority    uint8
	Description string

	FilterSource      Source
	HasSourceFilter   bool
	FilterSeverity    Severity
	HasSeverityFilter bool
}

// RegisterErrorHandler adds an error handler to the chain.
func RegisterErrorHandler(r ErrorRegistration) *kernel.Error {
	if !isInitialized() {
		return ErrNotInitialized
	}

	entry := errorHandlerEntry{
		fn:             r.Handler,
		priority:       r.Priority,
		description:    r.Description,
		filterSource:   r.FilterSource,
		hasSourceFlt:   r.HasSourceFilter,
		filterSeverity: r.FilterSeverity,
		hasSeverityFlt: r.HasSeverityFilter,
	}

	system.mu.Acquire()
	err := system.errman.register(entry)
	system.mu.Release()
	return err
}

// UnregisterErrorHandler removes the error handler with the given
// description.
func UnregisterErrorHandler(description string) *kernel.Error {
	if !isInitialized() {
		return ErrNotInitialized
	}

	system.mu.Acquire()
	err := system.errman.unregister(description)
	system.mu.Release()
	return err
}

// HandleError runs the error handler chain for err and returns the best
// outcome any handler produced.
func HandleError(err SystemError) ErrorResult {
	if !isInitialized() {
		return ErrorUnhandled
	}

	return system.handleError(err)
}

// PrintErrorLog writes the most recent n error log entries to w, oldest
// first.
func PrintErrorLog(n int, w io.Writer) {
	if !isInitialized() {
		return
	}

	system.mu.Acquire()
	system.errman.log.printRecent(n, w)
	system.mu.Release()
}

// ClearErrorLog drops all retained error log entries.
func ClearErrorLog() {
	if !isInitialized() {
		return
	}

	system.mu.Acquire()
	system.errman.log.clear()
	system.mu.Release()
}

// PrintErrorHandlers writes a listing of the error handler chain to w.
func PrintErrorHandlers(w io.Writer) {
	if !isInitialized() {
		return
	}

	system.mu.Acquire()
	system.errman.dumpTo(w)
	system.mu.Release()
}

// PanicMode returns true once a fatal error has latched the error manager.
func PanicMode() bool {
	if !isInitialized() {
		return false
	}

	return system.errman.inPanicMode()
}

// ResetPanicMode clears the panic latch. Only recovery code that has
// re-established a sane system state should call this.
func ResetPanicMode() {
	if !isInitialized() {
		return
	}

	system.errman.resetPanic()
}

// EnableInterrupts enables supervisor interrupt delivery and reports
// whether it was previously enabled.
func EnableInterrupts() bool {
	if !isInitialized() {
		return false
	}

	return cpu.EnableInterrupts()
}

// DisableInterrupts disables supervisor interrupt delivery and reports
// whether it was previously enabled.
func DisableInterrupts() bool {
	if !isInitialized() {
		return false
	}

	return cpu.DisableInterrupts()
}

// RestoreInterrupts re-enables interrupt delivery only if wasEnabled is
// true. Pairs with DisableInterrupts for save and restore sections.
func RestoreInterrupts(wasEnabled bool) {
	if !isInitialized() {
		return
	}

	cpu.RestoreInterrupts(wasEnabled)
}

// EnableIRQ unmasks delivery of the given interrupt source.
func EnableIRQ(irqLine cpu.IRQ) {
	if !isInitialized() {
		return
	}

	cpu.EnableIRQ(irqLine)
}

// DisableIRQ masks delivery of the given interrupt source.
func DisableIRQ(irqLine cpu.IRQ) {
	if !isInitialized() {
		return
	}

	cpu.DisableIRQ(irqLine)
}

// IRQEnabled reports whether delivery of the given source is unmasked.
func IRQEnabled(irqLine cpu.IRQ) bool {
	if !isInitialized() {
		return false
	}

	return cpu.IRQEnabled(irqLine)
}

// IRQPending reports whether the given source has a pending interrupt.
func IRQPending(irqLine cpu.IRQ) bool {
	if !isInitialized() {
		return false
	}

	return cpu.IRQPending(irqLine)
}

// SetSoftInterrupt raises the supervisor software interrupt line.
func SetSoftInterrupt() {
	if !isInitialized() {
		return
	}

	cpu.SetSoftInterrupt()
}

// ClearSoftInterrupt clears the supervisor software interrupt line.
func ClearSoftInterrupt() {
	if !isInitialized() {
		return
	}

	cpu.ClearSoftInterrupt()
}

// InTrapContext returns true while a trap is being serviced.
func InTrapContext() bool {
	return irq.InTrapContext()
}

// NestLevel returns the number of outstanding trap frames.
func NestLevel() int {
	return irq.NestLevel()
}
