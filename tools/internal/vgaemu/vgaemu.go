// Package vgaemu emulates the parts of a color text adapter that the console
// driver touches: the 32 KiB text window and the CRTC registers behind ports
// 0x3d4/0x3d5. It lets the kernel's console packages run as a host process.
package vgaemu

import (
	"encoding/binary"
	"fmt"
	"io"
	"kfs/device/video/console"
	"sync"
)

const (
	indexPort = 0x3d4
	dataPort  = 0x3d5

	regCursorStart   = 0x0a
	regStartAddrHigh = 0x0c
	regStartAddrLow  = 0x0d

	cursorDisable = 1 << 5

	// WindowWords is the number of 16-bit cells in the text window.
	WindowWords = console.TextWindowSize / 2
)

// Adapter is an emulated text adapter.
type Adapter struct {
	mu    sync.Mutex
	index uint8
	regs  [0x19]uint8

	mem []uint16
}

// New returns an adapter with a zeroed text window.
func New() *Adapter {
	return &Adapter{mem: make([]uint16, WindowWords)}
}

// Framebuffer returns the emulated text window. The console driver stores
// cells into it directly.
func (a *Adapter) Framebuffer() []uint16 {
	return a.mem
}

// PortWrite emulates an OUT to one of the CRTC ports. Writes to other ports
// and to registers the adapter does not implement are ignored.
func (a *Adapter) PortWrite(port uint16, val uint8) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch port {
	case indexPort:
		a.index = val
	case dataPort:
		if int(a.index) < len(a.regs) {
			a.regs[a.index] = val
		}
	}
}

// Register returns the value last written to CRTC register reg.
func (a *Adapter) Register(reg uint8) uint8 {
	a.mu.Lock()
	defer a.mu.Unlock()

	if int(reg) >= len(a.regs) {
		return 0
	}
	return a.regs[reg]
}

// StartAddress returns the word offset that the adapter scans out from.
func (a *Adapter) StartAddress() int {
	return int(a.Register(regStartAddrHigh))<<8 | int(a.Register(regStartAddrLow))
}

// CursorDisabled returns true if the hardware cursor has been turned off.
func (a *Adapter) CursorDisabled() bool {
	return a.Register(regCursorStart)&cursorDisable != 0
}

// Visible returns a columns x rows grid over the cells that are currently
// scanned out.
func (a *Adapter) Visible(columns, rows int) (*console.Grid, error) {
	start := a.StartAddress()
	if start >= len(a.mem) {
		return nil, fmt.Errorf("start address 0x%x is outside the text window", start)
	}

	grid, err := console.NewGrid(a.mem[start:], columns, rows)
	if err != nil {
		return nil, fmt.Errorf("visible page at 0x%x: %s", start, err.Error())
	}
	return grid, nil
}

// Dump writes the text window to w as little-endian words, the layout of the
// memory on the adapter.
func (a *Adapter) Dump(w io.Writer) error {
	return binary.Write(w, binary.LittleEndian, a.mem)
}

// Load replaces the text window with a dump produced by Dump.
func (a *Adapter) Load(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, a.mem); err != nil {
		return fmt.Errorf("load text window: %w", err)
	}
	return nil
}
