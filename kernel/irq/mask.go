package irq

import (
	"kfs/kernel/cpu"
	"sync/atomic"
)

var (
	flagsFn             = cpu.Flags
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts

	// softIF backs the software interrupt flag installed by UseSoftwareMask.
	softIF uint32
)

// State records whether interrupts were enabled before a call to Mask.
type State bool

// Mask disables hardware interrupts and returns the previous interrupt-enable
// state. Every Mask must be paired with a Restore.
//
// Console state is protected by non-reentrant spinlocks. An interrupt handler
// that fires while the interrupted code holds one of those locks and then
// tries to take the same lock would spin forever on a single core, so any
// code path that takes a console lock masks interrupts first.
func Mask() State {
	prev := flagsFn()&cpu.FlagInterruptEnable != 0
	disableInterruptsFn()
	return State(prev)
}

// Restore re-enables interrupts if they were enabled when the matching Mask
// call was made.
func Restore(s State) {
	if s {
		enableInterruptsFn()
	}
}

// WithoutInterrupts runs fn with hardware interrupts masked, restoring the
// previous interrupt-enable state once fn returns.
func WithoutInterrupts(fn func()) {
	s := Mask()
	fn()
	Restore(s)
}

// UseSoftwareMask replaces the CLI/STI based implementation with a software
// interrupt flag. It is meant for hosted builds (tools and tests) that run
// the console packages as an unprivileged process.
func UseSoftwareMask() {
	atomic.StoreUint32(&softIF, 1)
	flagsFn = func() uint64 {
		if atomic.LoadUint32(&softIF) == 1 {
			return cpu.FlagInterruptEnable
		}
		return 0
	}
	disableInterruptsFn = func() { atomic.StoreUint32(&softIF, 0) }
	enableInterruptsFn = func() { atomic.StoreUint32(&softIF, 1) }
}
