package trap

import "rvos/kernel"

var (
	// ErrNotInitialized is returned by API calls made before Init.
	ErrNotInitialized = &kernel.Error{Module: "trap", Message: "trap system not initialized"}

	// ErrRegistrationFailed is returned when a handler cannot be added
	// because its slot table is full or an equivalent handler exists.
	ErrRegistrationFailed = &kernel.Error{Module: "trap", Message: "handler registration failed"}

	// ErrHandlerNotFound is returned when an unregistration request names
	// a handler that is not present.
	ErrHandlerNotFound = &kernel.Error{Module: "trap", Message: "handler not found"}

	// ErrProtectedHandler is returned when a non-kernel registrar tries to
	// remove a system protected handler.
	ErrProtectedHandler = &kernel.Error{Module: "trap", Message: "handler is system protected"}

	// ErrInvalidRegistrar is returned when a registrar tries to remove a
	// handler registered by someone else.
	ErrInvalidRegistrar = &kernel.Error{Module: "trap", Message: "registrar does not own handler"}

	// ErrNoHandler is reported when dispatch exhausts the handler chain
	// without any handler claiming the trap.
	ErrNoHandler = &kernel.Error{Module: "trap", Message: "no handler claimed trap"}

	// ErrInvalidArgument is returned when a request carries a nil handler
	// or an out of range trap type.
	ErrInvalidArgument = &kernel.Error{Module: "trap", Message: "invalid argument"}
)
