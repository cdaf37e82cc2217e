// Package tty implements the interactive text consoles that run on top of
// the adapter's text pages.
//
// Each Screen owns one page of adapter memory and a History ring holding the
// rows scrolled out of view. In input mode a Screen behaves as a line editor
// over a document made of the rows above the grid, the grid itself and the
// rows below it; characters are inserted rather than overwritten and every
// insertion or deletion ripples through the rest of the document. The
// Multiplexer owns all screens and selects the visible one by reprogramming
// the CRTC start address.
package tty

import "kfs/device/video/console"

// Control bytes understood by screens in input mode. They are chosen outside
// the printable ASCII range so that they never collide with text.
const (
	CtrlBackspace = byte(0x08)
	CtrlUp        = byte(0x18)
	CtrlDown      = byte(0x19)
	CtrlRight     = byte(0x1a)
	CtrlLeft      = byte(0x1b)
	CtrlPageUp    = byte(0x1e)
	CtrlPageDown  = byte(0x1f)
	CtrlDelete    = byte(0x7f)
)

const (
	// ScreenCount is the number of screens managed by the Multiplexer.
	ScreenCount = 8

	// DiagnosticScreen is reserved for fatal error reports.
	DiagnosticScreen = ScreenCount - 1

	// DefaultHistoryRows is the scrollback capacity of each screen.
	DefaultHistoryRows = 50

	// Prompt is written to interactive screens once they enter input mode.
	Prompt = "$> "
)

// CursorAttribute is used to render the cell under the cursor of a screen in
// input mode.
var CursorAttribute = console.MakeAttribute(console.Black, console.LightGray)

// displayByte maps b to the byte stored in a cell: graphic characters and
// whitespace are stored as-is, everything else as the placeholder glyph.
func displayByte(b byte) byte {
	switch {
	case b > 0x20 && b < 0x7f:
		return b
	case b == ' ', b == '\t', b == '\v', b == '\f', b == '\r':
		return b
	default:
		return console.PlaceholderGlyph
	}
}
