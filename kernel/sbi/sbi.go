// Package sbi wraps the Supervisor Binary Interface calls exposed by the
// platform firmware. The kernel consumes these as opaque services: character
// console I/O, the monotonic time counter, timer programming, system reset
// and static platform identification.
package sbi

// SBI extension and function identifiers used by this kernel.
const (
	extBase       = 0x10
	extTime       = 0x54494D45
	extIPI        = 0x735049
	extSRST       = 0x53525354
	extLegacyPutc = 0x01
	extLegacyGetc = 0x02

	fnBaseSpecVersion = 0
	fnBaseImplID      = 1
	fnBaseImplVersion = 2
	fnBaseMVendorID   = 4
	fnBaseMArchID     = 5
	fnBaseMImpID      = 6

	fnTimeSetTimer    = 0
	fnIPISendIPI      = 0
	fnSRSTSystemReset = 0
)

// ResetType selects the kind of system reset requested via SystemReset.
type ResetType uint32

const (
	ResetShutdown   = ResetType(0)
	ResetColdReboot = ResetType(1)
	ResetWarmReboot = ResetType(2)
)

// ResetReason describes why a system reset was requested.
type ResetReason uint32

const (
	ReasonNone          = ResetReason(0)
	ReasonSystemFailure = ResetReason(1)
)

// ConsolePutchar writes a single byte to the firmware console.
func ConsolePutchar(c byte) {
	sbiCall(extLegacyPutc, 0, uintptr(c), 0, 0)
}

// ConsoleGetchar reads a single byte from the firmware console. The second
// return value is false if no input is available.
func ConsoleGetchar() (byte, bool) {
	_, v := sbiCall(extLegacyGetc, 0, 0, 0, 0)
	if int64(v) == -1 {
		return 0, false
	}
	return byte(v), true
}

// GetTime returns the current value of the monotonic time counter.
func GetTime() uint64 {
	return readTime()
}

// SetTimer programs the next timer interrupt to fire when the time counter
// reaches absTime.
func SetTimer(absTime uint64) {
	sbiCall(extTime, fnTimeSetTimer, uintptr(absTime), 0, 0)
}

// SendIPI sends a software interrupt to the harts selected by hartMask.
func SendIPI(hartMask uint64) {
	sbiCall(extIPI, fnIPISendIPI, uintptr(hartMask), 0, 0)
}

// Shutdown requests a system shutdown. It does not return on real hardware.
func Shutdown(reason ResetReason) {
	sbiCall(extSRST, fnSRSTSystemReset, uintptr(ResetShutdown), uintptr(reason), 0)
}

// Reboot requests a system reboot of the given kind. It does not return on
// real hardware.
func Reboot(kind ResetType, reason ResetReason) {
	sbiCall(extSRST, fnSRSTSystemReset, uintptr(kind), uintptr(reason), 0)
}

// SpecVersion returns the SBI specification version implemented by the
// firmware.
func SpecVersion() uint64 {
	_, v := sbiCall(extBase, fnBaseSpecVersion, 0, 0, 0)
	return uint64(v)
}

// ImplID returns the firmware implementation identifier.
func ImplID() uint64 {
	_, v := sbiCall(extBase, fnBaseImplID, 0, 0, 0)
	return uint64(v)
}

// ImplVersion returns the firmware implementation version.
func ImplVersion() uint64 {
	_, v := sbiCall(extBase, fnBaseImplVersion, 0, 0, 0)
	return uint64(v)
}

// MVendorID returns the value of the machine-mode mvendorid register.
func MVendorID() uint64 {
	_, v := sbiCall(extBase, fnBaseMVendorID, 0, 0, 0)
	return uint64(v)
}

// MArchID returns the value of the machine-mode marchid register.
func MArchID() uint64 {
	_, v := sbiCall(extBase, fnBaseMArchID, 0, 0, 0)
	return uint64(v)
}

// MImpID returns the value of the machine-mode mimpid register.
func MImpID() uint64 {
	_, v := sbiCall(extBase, fnBaseMImpID, 0, 0, 0)
	return uint64(v)
}
