// Package cpu exposes the handful of privileged x86 instructions the console
// subsystem needs. The functions are implemented in cpu_amd64.s.
package cpu

// FlagInterruptEnable is the IF bit of the RFLAGS register.
const FlagInterruptEnable = 1 << 9

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution. It masks interrupts first so Halt never
// returns.
func Halt()

// Idle waits for the next interrupt. Interrupts must be enabled or Idle
// will never return.
func Idle()

// Flags returns the contents of the RFLAGS register.
func Flags() uint64

// InterruptsEnabled returns true if the IF flag is set.
func InterruptsEnabled() bool {
	return Flags()&FlagInterruptEnable != 0
}

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8
