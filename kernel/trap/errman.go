package trap

import (
	"io"
	"sync/atomic"

	"rvos/kernel"
	"rvos/kernel/cpu"
	"rvos/kernel/kfmt"
	"rvos/kernel/sbi"
)

// maxErrorHandlers caps the error handler chain.
const maxErrorHandlers = 16

// errorHaltFn is swapped out by tests that exercise the fatal error path.
var errorHaltFn = errorHalt

// ErrorHandlerFunc attempts to resolve or mitigate a system error.
type ErrorHandlerFunc func(err *SystemError) ErrorResult

// errorHandlerEntry is one slot in the error handler chain. A handler only
// sees errors that match all of its present filters.
type errorHandlerEntry struct {
	fn          ErrorHandlerFunc
	priority    uint8
	description string

	filterSource   Source
	hasSourceFlt   bool
	filterSeverity Severity
	hasSeverityFlt bool
}

func (e *errorHandlerEntry) matches(err *SystemError) bool {
	if e.hasSourceFlt && err.Code.Source() != e.filterSource {
		return false
	}
	if e.hasSeverityFlt && err.Code.Severity() != e.filterSeverity {
		return false
	}

	return true
}

// errorManager owns the error handler chain, the circular error log and the
// panic latch. Like handlerTable it performs no locking of its own.
type errorManager struct {
	handlers [maxErrorHandlers]errorHandlerEntry
	count    int
	log      errorLog

	// panicLatched is set before dispatching the first fatal error.
	// While set, further errors are logged as ignored without dispatch
	// so a failing error path cannot recurse.
	panicLatched uint32
}

// register inserts entry into the chain, sorted ascending by priority with
// ties keeping insertion order.
func (m *errorManager) register(entry errorHandlerEntry) *kernel.Error {
	if entry.fn == nil {
		return ErrInvalidArgument
	}
	if m.count == maxErrorHandlers {
		return ErrRegistrationFailed
	}

	for i := 0; i < m.count; i++ {
		if m.handlers[i].description == entry.description {
			return ErrRegistrationFailed
		}
	}

	pos := m.count
	for i := 0; i < m.count; i++ {
		if m.handlers[i].priority > entry.priority {
			pos = i
			break
		}
	}

	copy(m.handlers[pos+1:m.count+1], m.handlers[pos:m.count])
	m.handlers[pos] = entry
	m.count++
	return nil
}

// unregister removes the chain entry with the given description.
func (m *errorManager) unregister(description string) *kernel.Error {
	for i := 0; i < m.count; i++ {
		if m.handlers[i].description != description {
			continue
		}

		copy(m.handlers[i:m.count-1], m.handlers[i+1:m.count])
		m.handlers[m.count-1] = errorHandlerEntry{}
		m.count--
		return nil
	}

	return ErrHandlerNotFound
}

// snapshotMatching copies the handler functions whose filters match err
// into buf, in priority order, and returns the number copied.
func (m *errorManager) snapshotMatching(err *SystemError, buf *[maxErrorHandlers]ErrorHandlerFunc) int {
	var n int
	for i := 0; i < m.count; i++ {
		if m.handlers[i].matches(err) {
			buf[n] = m.handlers[i].fn
			n++
		}
	}

	return n
}

func (m *errorManager) inPanicMode() bool {
	return atomic.LoadUint32(&m.panicLatched) != 0
}

func (m *errorManager) latchPanic() {
	atomic.StoreUint32(&m.panicLatched, 1)
}

func (m *errorManager) resetPanic() {
	atomic.StoreUint32(&m.panicLatched, 0)
}

// dumpTo writes a human readable listing of the error handler chain to w.
func (m *errorManager) dumpTo(w io.Writer) {
	for i := 0; i < m.count; i++ {
		entry := &m.handlers[i]
		kfmt.Fprintf(w, "[prio %3d] %s", int(entry.priority), entry.description)
		if entry.hasSourceFlt {
			kfmt.Fprintf(w, " source=%s", entry.filterSource.String())
		}
		if entry.hasSeverityFlt {
			kfmt.Fprintf(w, " severity=%s", entry.filterSeverity.String())
		}
		kfmt.Fprintf(w, "\n")
	}
}

// betterResult returns true when a improves on b as a dispatch outcome.
func betterResult(a, b ErrorResult) bool {
	rank := func(r ErrorResult) int {
		switch r {
		case ErrorHandled:
			return 3
		case ErrorPartial:
			return 2
		case ErrorIgnored:
			return 1
		}
		return 0
	}

	return rank(a) > rank(b)
}

// printDiagnostics writes a full report for err to the kernel log.
func printDiagnostics(err *SystemError) {
	w := kfmt.GetOutputSink()
	code := err.Code

	kfmt.Fprintf(w, "system error: %s/%s #%d (code %x)\n",
		code.Source().String(), code.Severity().String(), int(code.Number()), uint64(code))
	if err.HasAddr {
		kfmt.Fprintf(w, "  fault addr: %x\n", err.Addr)
	}
	if err.IP != 0 {
		kfmt.Fprintf(w, "  ip        : %x\n", err.IP)
	}
	kfmt.Fprintf(w, "  timestamp : %d\n", err.Timestamp)
}

// errorHalt takes the system down after an unrecoverable error. The reset
// request should not return; the halt loop covers firmware that does.
func errorHalt() {
	sbi.Shutdown(sbi.ReasonSystemFailure)
	for {
		cpu.Halt()
	}
}
