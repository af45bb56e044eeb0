package trap

import (
	"sync/atomic"

	"rvos/kernel"
	"rvos/kernel/cpu"
	"rvos/kernel/irq"
	"rvos/kernel/kfmt"
	"rvos/kernel/sync"
)

// Init states for the container.
const (
	stateUninitialized uint32 = iota
	stateInitializing
	stateReady
)

// System composes the trap dispatch core: the handler table, the error
// manager and the trap vector configuration. A single spinlock guards all
// mutable state; it is never held while handler code or hardware calls
// that could trap run, and interrupts are never disabled while holding it.
type System struct {
	mu sync.Spinlock

	handlers handlerTable
	errman   errorManager
	mode     cpu.TrapMode
}

var (
	system    System
	initState uint32
)

func isInitialized() bool {
	return atomic.LoadUint32(&initState) == stateReady
}

// Init brings up the trap system: it installs the trap vector in the given
// mode, configures the nesting limit and registers the default trap and
// error handlers. Exactly one caller wins; later calls log and return
// without touching the configuration.
func Init(mode cpu.TrapMode) *kernel.Error {
	if !atomic.CompareAndSwapUint32(&initState, stateUninitialized, stateInitializing) {
		kfmt.Printf("trap: init requested more than once; ignored\n")
		return nil
	}

	system.mode = mode
	irq.SetMaxNestDepth(irq.DefaultMaxNestDepth)
	cpu.InitTrapVector(mode)

	registerDefaultHandlers()
	registerDefaultErrorHandlers()

	atomic.StoreUint32(&initState, stateReady)
	kfmt.Printf("trap: initialized, %s vector mode\n", mode.String())
	return nil
}

// dispatch walks the handler chain for the trap described by ctx. The
// chain is snapshotted under the lock and invoked without it.
func (s *System) dispatch(ctx *irq.Context) (Result, *kernel.Error) {
	tt := ctx.Cause().Type()

	var chain [maxHandlersPerType]HandlerFunc
	s.mu.Acquire()
	count := s.handlers.snapshot(tt, &chain)
	s.mu.Release()

	for i := 0; i < count; i++ {
		switch chain[i](ctx) {
		case Handled:
			return Handled, nil
		case Failed:
			kfmt.Printf("trap: %s handler %d failed, trying next\n", tt.String(), i)
		}
	}

	return Failed, ErrNoHandler
}

// handleTrap services one trap. When no registered handler claims it, a
// per-category fallback keeps the system making progress.
func (s *System) handleTrap(ctx *irq.Context) {
	if res, _ := s.dispatch(ctx); res == Handled {
		return
	}

	tt := ctx.Cause().Type()
	switch tt {
	case irq.TrapSystemCall:
		// Resume past the ecall so it does not trap again.
		ctx.AdvancePC()
	case irq.TrapBreakpoint:
		kfmt.Printf("trap: breakpoint at %x\n", ctx.SEPC)
		ctx.AdvancePC()
	case irq.TrapInstrPageFault, irq.TrapLoadPageFault, irq.TrapStorePageFault:
		kfmt.Printf("trap: unhandled %s, addr %x, ip %x\n", tt.String(), ctx.STval, ctx.SEPC)
		s.handleError(NewErrorAt(SourceMemory, SeverityCritical, uint16(tt), ctx.STval, ctx.SEPC))
	case irq.TrapSoftwareInterrupt:
		cpu.ClearSoftInterrupt()
	case irq.TrapTimerInterrupt, irq.TrapExternalInterrupt:
		kfmt.Printf("trap: spurious %s\n", tt.String())
	default:
		kfmt.Printf("trap: unhandled %s, ip %x\n", tt.String(), ctx.SEPC)
		ctx.DumpTo(kfmt.GetOutputSink())
	}
}

// handleError runs the error handler chain for err and logs the outcome.
// Fatal errors latch panic mode before dispatch; once latched, further
// errors are logged as ignored without dispatch. A fatal error that no
// handler resolves or mitigates takes the system down.
func (s *System) handleError(err SystemError) ErrorResult {
	if s.errman.inPanicMode() {
		s.mu.Acquire()
		s.errman.log.log(err, ErrorIgnored)
		s.mu.Release()
		return ErrorIgnored
	}

	fatal := err.Code.IsFatal()
	if fatal {
		s.errman.latchPanic()
		printDiagnostics(&err)
	}

	var chain [maxErrorHandlers]ErrorHandlerFunc
	s.mu.Acquire()
	count := s.errman.snapshotMatching(&err, &chain)
	s.mu.Release()

	best := ErrorUnhandled
	for i := 0; i < count; i++ {
		res := chain[i](&err)
		if res == ErrorHandled {
			best = ErrorHandled
			break
		}
		if betterResult(res, best) {
			best = res
		}
	}

	s.mu.Acquire()
	s.errman.log.log(err, best)
	s.mu.Release()

	if fatal && (best == ErrorUnhandled || best == ErrorIgnored) {
		kfmt.Printf("trap: unrecoverable fatal error, halting\n")
		printDiagnostics(&err)
		errorHaltFn()
	}

	return best
}

// registerDefaultHandlers installs a catch-all handler for every trap type
// so dispatch always has at least one chain entry. They only report and
// pass so the per-category fallbacks stay in charge.
func registerDefaultHandlers() {
	for tt := irq.TrapType(0); int(tt) < irq.NumTrapTypes; tt++ {
		entry := handlerEntry{
			priority:    100,
			description: "default: " + tt.String(),
			protection:  ProtectionSystem,
			registrar:   SystemRegistrar,
			context:     KernelContext,
		}

		if tt.IsInterrupt() {
			entry.fn = func(*irq.Context) Result { return Pass }
		} else {
			cause := tt
			entry.fn = func(ctx *irq.Context) Result {
				kfmt.Printf("trap: %s, ip %x\n", cause.String(), ctx.SEPC)
				return Pass
			}
		}

		system.handlers.register(tt, entry)
	}
}

// registerDefaultErrorHandlers installs the baseline error handler chain: a
// fatal severity reporter ahead of per-source reporters.
func registerDefaultErrorHandlers() {
	fatal := SeverityFatal
	system.errman.register(errorHandlerEntry{
		fn: func(err *SystemError) ErrorResult {
			printDiagnostics(err)
			return ErrorUnhandled
		},
		priority:       10,
		description:    "default: fatal reporter",
		filterSeverity: fatal,
		hasSeverityFlt: true,
	})

	for _, src := range []Source{SourceInterrupt, SourceMemory, SourceProcess, SourceSyscall} {
		source := src
		system.errman.register(errorHandlerEntry{
			fn: func(err *SystemError) ErrorResult {
				kfmt.Printf("trap: %s error #%d\n", source.String(), int(err.Code.Number()))
				return ErrorUnhandled
			},
			priority:     100,
			description:  "default: " + source.String() + " reporter",
			filterSource: source,
			hasSourceFlt: true,
		})
	}
}
