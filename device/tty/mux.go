package tty

import (
	"io"
	"kfs/device/video/console"
	"kfs/kernel"
	"kfs/kernel/irq"
	"kfs/kernel/kfmt"
	"kfs/kernel/sync"
	"sync/atomic"
)

var (
	errScreenIndex = &kernel.Error{Module: "tty", Message: "screen index out of range"}
	errTooFewPages = &kernel.Error{Module: "tty", Message: "display has fewer pages than screens"}
	errNotAttached = &kernel.Error{Module: "tty", Message: "multiplexer not initialized"}
)

// Display is the adapter memory that screens draw to. Each page holds one
// screen; ShowPage makes a page visible without copying it.
type Display interface {
	Pages() int
	Page(index int) (*console.Grid, *kernel.Error)
	ShowPage(index int)
}

// Multiplexer owns ScreenCount screens and selects the one shown by the
// adapter. Every screen keeps accepting writes while hidden.
//
// All locks are taken with interrupts masked so that an interrupt handler
// writing to a screen can never spin on a lock held by the code it
// interrupted.
type Multiplexer struct {
	display     Display
	historyRows int

	screens [ScreenCount]*Screen
	locks   [ScreenCount]sync.Spinlock

	current     uint32
	displayLock sync.Spinlock
}

// NewMultiplexer returns a multiplexer drawing to display whose screens keep
// historyRows rows of scrollback. The screens are created by DriverInit.
func NewMultiplexer(display Display, historyRows int) *Multiplexer {
	return &Multiplexer{
		display:     display,
		historyRows: historyRows,
	}
}

// Acquire masks interrupts, locks the screen at index and returns it
// together with the interrupt state that must be passed to Release.
func (m *Multiplexer) Acquire(index int) (*Screen, irq.State) {
	if !m.valid(index) {
		return nil, irq.State(false)
	}

	state := irq.Mask()
	m.locks[index].Acquire()
	return m.screens[index], state
}

// Release unlocks the screen at index and restores the interrupt state
// returned by Acquire.
func (m *Multiplexer) Release(index int, state irq.State) {
	if !m.valid(index) {
		return
	}

	m.locks[index].Release()
	irq.Restore(state)
}

// With runs fn while holding the screen at index.
func (m *Multiplexer) With(index int, fn func(*Screen)) {
	s, state := m.Acquire(index)
	if s == nil {
		return
	}

	fn(s)
	m.Release(index, state)
}

// CurrentIndex returns the index of the visible screen.
func (m *Multiplexer) CurrentIndex() int {
	return int(atomic.LoadUint32(&m.current))
}

// SetDisplay makes the screen at index visible by moving the adapter's start
// address to its page. Concurrent callers are serialized; screen locks are
// not involved.
func (m *Multiplexer) SetDisplay(index int) {
	if !m.valid(index) {
		return
	}

	state := irq.Mask()
	m.displayLock.Acquire()
	m.display.ShowPage(index)
	atomic.SwapUint32(&m.current, uint32(index))
	m.displayLock.Release()
	irq.Restore(state)
}

// Write writes p to the screen at index.
func (m *Multiplexer) Write(index int, p []byte) (int, error) {
	s, state := m.Acquire(index)
	if s == nil {
		return 0, errScreenIndex
	}

	n, err := s.Write(p)
	m.Release(index, state)
	return n, err
}

// WriteCurrent writes p to the visible screen.
func (m *Multiplexer) WriteCurrent(p []byte) (int, error) {
	return m.Write(m.CurrentIndex(), p)
}

// Writer returns an io.Writer for the screen at index.
func (m *Multiplexer) Writer(index int) io.Writer {
	return &screenWriter{mux: m, index: index}
}

// PanicWriter returns the writer used to report fatal errors. It writes to
// the diagnostic screen even if its lock is held and then makes that screen
// visible; it never waits for a lock.
func (m *Multiplexer) PanicWriter() io.Writer {
	return &panicWriter{mux: m}
}

// DriverName returns the name of this driver.
func (m *Multiplexer) DriverName() string {
	return "tty_mux"
}

// DriverVersion returns the version of this driver.
func (m *Multiplexer) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit creates one screen per display page and shows the first one.
func (m *Multiplexer) DriverInit(w io.Writer) *kernel.Error {
	if m.display == nil {
		return errNotAttached
	}

	if m.display.Pages() < ScreenCount {
		return errTooFewPages
	}

	for i := 0; i < ScreenCount; i++ {
		grid, err := m.display.Page(i)
		if err != nil {
			return err
		}

		if m.screens[i], err = NewScreen(grid, m.historyRows); err != nil {
			return err
		}
	}

	m.SetDisplay(0)
	kfmt.Fprintf(w, "%d screens with %d rows of history\n", ScreenCount, m.historyRows)
	return nil
}

func (m *Multiplexer) valid(index int) bool {
	if index < 0 || index >= ScreenCount {
		panicFn(errScreenIndex)
		return false
	}

	if m.screens[index] == nil {
		panicFn(errNotAttached)
		return false
	}

	return true
}

type screenWriter struct {
	mux   *Multiplexer
	index int
}

func (w *screenWriter) Write(p []byte) (int, error) {
	return w.mux.Write(w.index, p)
}

type panicWriter struct {
	mux *Multiplexer
}

func (w *panicWriter) Write(p []byte) (int, error) {
	m := w.mux
	s := m.screens[DiagnosticScreen]
	if s == nil {
		return len(p), nil
	}

	state := irq.Mask()
	locked := m.locks[DiagnosticScreen].TryToAcquire()
	s.Write(p)
	if locked {
		m.locks[DiagnosticScreen].Release()
	}

	if atomic.LoadUint32(&m.current) != DiagnosticScreen && m.displayLock.TryToAcquire() {
		m.display.ShowPage(DiagnosticScreen)
		atomic.StoreUint32(&m.current, DiagnosticScreen)
		m.displayLock.Release()
	}
	irq.Restore(state)

	return len(p), nil
}
