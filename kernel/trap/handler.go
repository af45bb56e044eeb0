// Package trap implements the kernel trap dispatch core: a priority ordered
// handler registry with ownership tracking, a system error manager with its
// own handler chain and circular log, and the container that wires both to
// the hardware control layer. All entry points are exposed through the
// package level API in api.go.
package trap

import (
	"sync/atomic"

	"rvos/kernel/irq"
)

// Result reports what a trap handler did with the trap it was offered.
type Result uint8

const (
	// Handled indicates the trap was fully serviced; dispatch stops.
	Handled Result = iota

	// Pass indicates the handler declined the trap; dispatch continues
	// with the next handler in priority order.
	Pass

	// Failed indicates the handler attempted to service the trap and
	// could not. The failure is logged and dispatch continues.
	Failed
)

// String implements fmt.Stringer for Result.
func (r Result) String() string {
	switch r {
	case Handled:
		return "handled"
	case Pass:
		return "pass"
	case Failed:
		return "failed"
	}

	return "invalid"
}

// HandlerFunc services a trap described by ctx. Handlers run with the trap
// frame of the interrupted code and may mutate it.
type HandlerFunc func(ctx *irq.Context) Result

// ProtectionLevel controls who may unregister a handler.
type ProtectionLevel uint8

const (
	// ProtectionSystem marks handlers only the kernel may remove.
	ProtectionSystem ProtectionLevel = iota

	// ProtectionUser marks handlers removable by their creator.
	ProtectionUser
)

// String implements fmt.Stringer for ProtectionLevel.
func (p ProtectionLevel) String() string {
	if p == ProtectionSystem {
		return "system"
	}
	return "user"
}

// RegistrarID identifies the subsystem or process that registered a
// handler. The zero value is reserved for the kernel itself.
type RegistrarID uint32

// SystemRegistrar is the reserved registrar identity of the kernel. It may
// remove any handler regardless of protection level.
const SystemRegistrar = RegistrarID(0)

// ContextID ties a handler to an execution context so all of a context's
// handlers can be removed in one sweep when it is torn down. The zero value
// means the handler belongs to no particular context.
type ContextID uint32

// KernelContext is the reserved context identity for handlers that outlive
// any process.
const KernelContext = ContextID(0)

var (
	registrarCounter uint32
	contextCounter   uint32
)

// NewRegistrarID allocates the next registrar identity. Identities are
// never reused.
func NewRegistrarID() RegistrarID {
	return RegistrarID(atomic.AddUint32(&registrarCounter, 1))
}

// NewContextID allocates the next context identity. Identities are never
// reused.
func NewContextID() ContextID {
	return ContextID(atomic.AddUint32(&contextCounter, 1))
}
