// Package kmain brings up the console and runs the kernel's idle loop.
package kmain

import (
	"kfs/device/keyboard"
	"kfs/device/tty"
	"kfs/device/video/console"
	"kfs/kernel"
	"kfs/kernel/cpu"
	"kfs/kernel/hal"
	"kfs/kernel/irq"
	"kfs/kernel/kfmt"
	"sync/atomic"
)

const (
	// Vector offsets of the two PIC chips. Vectors below 0x20 are reserved
	// for CPU exceptions.
	picOffset1 = 0x20
	picOffset2 = 0x28
)

// readScancodeFn is mocked by tests.
var readScancodeFn = keyboard.ReadScancode

// Config selects the hardware that Boot brings up.
type Config struct {
	// Display provides the text pages. It is initialized by Boot.
	Display *console.VgaText

	// PIC is remapped and programmed to deliver the timer and keyboard
	// interrupts. Hosted builds leave it nil.
	PIC *irq.PIC

	// Keyboard is initialized by Boot if set.
	Keyboard *keyboard.Driver

	// HistoryRows is the scrollback capacity of each screen.
	HistoryRows int
}

// System is the console state created by Boot. It lives for the lifetime of
// the kernel.
type System struct {
	Mux *tty.Multiplexer

	decoder keyboard.Decoder
	keyBuf  [1]byte
	ticks   uint64
}

// Boot creates the console with interrupts masked: it initializes the
// drivers, routes kernel output to screen 0 and fatal reports to the
// diagnostic screen, prepares the interactive screens and installs the
// interrupt handlers. Interrupts are left masked; the caller unmasks them
// once it is ready to take them.
func Boot(cfg Config) (*System, *kernel.Error) {
	irq.Mask()

	if cfg.HistoryRows == 0 {
		cfg.HistoryRows = tty.DefaultHistoryRows
	}

	sys := &System{
		Mux: tty.NewMultiplexer(cfg.Display, cfg.HistoryRows),
	}

	if err := hal.InitDrivers(cfg.Display, sys.Mux); err != nil {
		return nil, err
	}

	sys.Mux.With(0, (*tty.Screen).PrintBanner)
	kfmt.SetOutputSink(sys.Mux.Writer(0))
	kfmt.SetPanicSink(sys.Mux.PanicWriter())

	if cfg.Keyboard != nil {
		if err := hal.InitDrivers(cfg.Keyboard); err != nil {
			return nil, err
		}
	}

	if cfg.PIC != nil {
		cfg.PIC.Remap()
		cfg.PIC.SetMasks(^uint8(1<<irq.Timer|1<<irq.Keyboard), 0xff)
		irq.SetPIC(cfg.PIC)
		kfmt.Printf("[kmain] pic remapped to 0x%x/0x%x\n", picOffset1, picOffset2)
	}

	irq.HandleIRQ(irq.Timer, sys.onTimer)
	irq.HandleIRQ(irq.Keyboard, sys.onKeyboard)
	irq.HandleException(irq.Breakpoint, sys.onBreakpoint)

	sys.Mux.Write(tty.DiagnosticScreen, []byte("diagnostics\n"))
	for i := 0; i < tty.DiagnosticScreen; i++ {
		sys.Mux.With(i, enterInputMode)
	}

	return sys, nil
}

func enterInputMode(s *tty.Screen) {
	s.SetMode(tty.ModeInput)
	s.Write([]byte(tty.Prompt))
}

// Ticks returns the number of timer interrupts handled so far.
func (sys *System) Ticks() uint64 {
	return atomic.LoadUint64(&sys.ticks)
}

// HandleEvent applies a decoded keyboard event to the console.
func (sys *System) HandleEvent(ev keyboard.Event) {
	switch ev.Kind {
	case keyboard.EventByte:
		sys.keyBuf[0] = ev.Byte
		sys.Mux.WriteCurrent(sys.keyBuf[:])
	case keyboard.EventSwitch:
		sys.Mux.SetDisplay(ev.Screen)
	case keyboard.EventBanner:
		sys.Mux.With(sys.Mux.CurrentIndex(), (*tty.Screen).PrintBanner)
	}
}

func (sys *System) onTimer() {
	atomic.AddUint64(&sys.ticks, 1)
}

func (sys *System) onKeyboard() {
	sys.HandleEvent(sys.decoder.Decode(readScancodeFn()))
}

func (sys *System) onBreakpoint(_ irq.ExceptionNum, frame *irq.Frame) {
	w := sys.Mux.Writer(tty.DiagnosticScreen)
	kfmt.Fprintf(w, "exception: breakpoint\n")
	frame.DumpTo(w)
}

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. It is invoked with interrupts disabled after the rt0
// code has set up the GDT, the IDT gates and a minimal g0 struct.
//
// Kmain never returns; once the console is up it idles waiting for
// interrupts.
//
//go:noinline
func Kmain() {
	display := console.NewVgaText(
		console.DefaultColumns,
		console.DefaultRows,
		tty.ScreenCount,
		console.TextWindowPhysAddr,
		nil,
	)

	_, err := Boot(Config{
		Display:  display,
		PIC:      irq.NewPIC(picOffset1, picOffset2),
		Keyboard: &keyboard.Driver{},
	})
	if err != nil {
		kfmt.Panic(err)
	}

	cpu.EnableInterrupts()
	for {
		cpu.Idle()
	}
}
