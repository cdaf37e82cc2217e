// Package console drives an EGA/VGA compatible adapter in 80x25 text mode.
//
// Adapter memory is treated as an array of pages, each holding one
// columns x rows grid of cells. Only one page is scanned out at a time; the
// CRTC start address register selects which one.
package console

import (
	"io"
	"kfs/kernel"
	"kfs/kernel/cpu"
	"kfs/kernel/kfmt"
	"kfs/kernel/mmio"
)

const (
	// TextWindowPhysAddr is the physical address of the color text window.
	TextWindowPhysAddr = uintptr(0xb8000)

	// TextWindowSize is the size of the color text window in bytes.
	TextWindowSize = 0x8000

	// DefaultColumns and DefaultRows describe mode 0x03.
	DefaultColumns = 80
	DefaultRows    = 25
)

var (
	portWriteByteFn  = cpu.PortWriteByte
	mapFramebufferFn = MapFramebuffer

	errWindowOverflow = &kernel.Error{Module: "console", Message: "pages do not fit in the text window"}
	errNoSuchPage     = &kernel.Error{Module: "console", Message: "page index out of range"}
)

// VgaText is the driver for the adapter's text window.
type VgaText struct {
	columns int
	rows    int
	pages   int

	fbPhysAddr uintptr
	fb         []uint16
	crtc       *CRTC
}

// NewVgaText returns a driver for pages text pages of columns x rows cells
// located at fbPhysAddr. CRTC registers are written with writeFn, or with the
// OUT instruction if writeFn is nil.
func NewVgaText(columns, rows, pages int, fbPhysAddr uintptr, writeFn PortWriteFn) *VgaText {
	return &VgaText{
		columns:    columns,
		rows:       rows,
		pages:      pages,
		fbPhysAddr: fbPhysAddr,
		crtc:       NewCRTC(writeFn),
	}
}

// UseFramebuffer makes the driver use fb instead of mapping adapter memory
// during DriverInit. Hosted builds pass an emulated text window.
func (v *VgaText) UseFramebuffer(fb []uint16) {
	v.fb = fb
}

// Dimensions returns the number of columns and rows of each page.
func (v *VgaText) Dimensions() (int, int) {
	return v.columns, v.rows
}

// Pages returns the number of pages.
func (v *VgaText) Pages() int {
	return v.pages
}

// PageSize returns the number of cells in a page.
func (v *VgaText) PageSize() int {
	return v.columns * v.rows
}

// CRTC returns the controller used to select the visible page.
func (v *VgaText) CRTC() *CRTC {
	return v.crtc
}

// Page returns the grid backing the page at index.
func (v *VgaText) Page(index int) (*Grid, *kernel.Error) {
	if index < 0 || index >= v.pages || v.fb == nil {
		return nil, errNoSuchPage
	}

	size := v.PageSize()
	return NewGrid(v.fb[index*size:], v.columns, v.rows)
}

// ShowPage programs the CRTC to scan out the page at index.
func (v *VgaText) ShowPage(index int) {
	v.crtc.SetStartAddress(uint16(index * v.PageSize()))
}

// DriverName returns the name of this driver.
func (v *VgaText) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (v *VgaText) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit maps the text window, clears every page and hides the hardware
// cursor; the console draws its own.
func (v *VgaText) DriverInit(w io.Writer) *kernel.Error {
	words := v.pages * v.PageSize()
	if words*2 > TextWindowSize {
		return errWindowOverflow
	}

	if v.fb == nil {
		v.fb = mapFramebufferFn(v.fbPhysAddr, words)
		kfmt.Fprintf(w, "mapped text window at 0x%x\n", v.fbPhysAddr)
	}

	if len(v.fb) < words {
		return errWindowOverflow
	}

	blank := EmptyCell.Word()
	for i := 0; i < words; i++ {
		mmio.StoreUint16(&v.fb[i], blank)
	}

	v.crtc.DisableCursor()
	kfmt.Fprintf(w, "%d pages of %dx%d cells\n", v.pages, v.columns, v.rows)

	return nil
}
