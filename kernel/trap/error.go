package trap

import "rvos/kernel/sbi"

// Severity ranks system errors. Lower values are more severe.
type Severity uint8

const (
	SeverityFatal Severity = iota
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityInfo
)

// String implements fmt.Stringer for Severity.
func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityCritical:
		return "critical"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}

	return "invalid"
}

// Source identifies the subsystem that raised a system error.
type Source uint8

const (
	SourceUnknown Source = iota
	SourceInterrupt
	SourceMemory
	SourceProcess
	SourceFileSystem
	SourceDevice
	SourceNetwork
	SourceSyscall
	SourcePower
	SourceSync
	SourceScheduler
)

// String implements fmt.Stringer for Source.
func (s Source) String() string {
	switch s {
	case SourceInterrupt:
		return "interrupt"
	case SourceMemory:
		return "memory"
	case SourceProcess:
		return "process"
	case SourceFileSystem:
		return "filesystem"
	case SourceDevice:
		return "device"
	case SourceNetwork:
		return "network"
	case SourceSyscall:
		return "syscall"
	case SourcePower:
		return "power"
	case SourceSync:
		return "sync"
	case SourceScheduler:
		return "scheduler"
	}

	return "unknown"
}

// Code packs the source, severity and subsystem specific number of a system
// error into a single comparable value.
type Code uint32

// NewCode builds a Code from its components.
func NewCode(src Source, sev Severity, number uint16) Code {
	return Code(uint32(src)<<24 | uint32(sev)<<16 | uint32(number))
}

// Source extracts the originating subsystem.
func (c Code) Source() Source {
	return Source(c >> 24)
}

// Severity extracts the severity rank.
func (c Code) Severity() Severity {
	return Severity(c >> 16 & 0xff)
}

// Number extracts the subsystem specific error number.
func (c Code) Number() uint16 {
	return uint16(c)
}

// IsFatal returns true when the code carries fatal severity.
func (c Code) IsFatal() bool {
	return c.Severity() == SeverityFatal
}

// SystemError is an immutable record of a single error occurrence.
type SystemError struct {
	Code Code

	// Addr is the faulting address when HasAddr is set.
	Addr    uint64
	HasAddr bool

	// IP is the instruction pointer at the time of the error, 0 if not
	// known.
	IP uint64

	// Timestamp is the monotonic time counter value when the error was
	// created.
	Timestamp uint64
}

// NewError builds a SystemError stamped with the current time.
func NewError(src Source, sev Severity, number uint16) SystemError {
	return SystemError{
		Code:      NewCode(src, sev, number),
		Timestamp: sbi.GetTime(),
	}
}

// NewErrorAt builds a SystemError carrying a faulting address and the
// instruction pointer of the trapping code.
func NewErrorAt(src Source, sev Severity, number uint16, addr, ip uint64) SystemError {
	return SystemError{
		Code:      NewCode(src, sev, number),
		Addr:      addr,
		HasAddr:   true,
		IP:        ip,
		Timestamp: sbi.GetTime(),
	}
}

// ErrorResult reports what an error handler did with the error it was
// offered.
type ErrorResult uint8

const (
	// ErrorHandled indicates the error was fully resolved.
	ErrorHandled ErrorResult = iota

	// ErrorPartial indicates the handler mitigated the error but could
	// not fully resolve it.
	ErrorPartial

	// ErrorUnhandled indicates the handler did not deal with the error.
	ErrorUnhandled

	// ErrorIgnored indicates the error was deliberately dropped.
	ErrorIgnored
)

// String implements fmt.Stringer for ErrorResult.
func (r ErrorResult) String() string {
	switch r {
	case ErrorHandled:
		return "handled"
	case ErrorPartial:
		return "partial"
	case ErrorUnhandled:
		return "unhandled"
	case ErrorIgnored:
		return "ignored"
	}

	return "invalid"
}
