// Package irq contains the interrupt plumbing the console depends on:
// interrupt masking, the 8259 PIC driver and the Go side of interrupt and
// exception dispatching. The IDT and the assembly entry gates that call
// DispatchIRQ and DispatchException live outside this package.
package irq

// Line identifies a PIC IRQ line (0-15).
type Line uint8

const (
	// Timer is the line of the programmable interval timer.
	Timer = Line(0)

	// Keyboard is the line of the PS/2 keyboard controller.
	Keyboard = Line(1)

	numLines = 16
)

// Handler is invoked in interrupt context when an IRQ line fires.
type Handler func()

var (
	irqHandlers [numLines]Handler

	// activePIC receives the end-of-interrupt notifications issued by
	// DispatchIRQ.
	activePIC *PIC
)

// SetPIC selects the controller that DispatchIRQ acknowledges interrupts on.
func SetPIC(p *PIC) {
	activePIC = p
}

// HandleIRQ registers handler for the given IRQ line replacing any previous
// registration. Passing a nil handler unregisters the line.
func HandleIRQ(line Line, handler Handler) {
	if line >= numLines {
		return
	}
	irqHandlers[line] = handler
}

// DispatchIRQ runs the handler registered for line and acknowledges the
// interrupt on the active PIC. Lines without a handler are acknowledged and
// otherwise ignored.
func DispatchIRQ(line Line) {
	if line >= numLines {
		return
	}

	if h := irqHandlers[line]; h != nil {
		h()
	}

	if activePIC != nil {
		activePIC.EndOfInterrupt(activePIC.Vector(line))
	}
}
