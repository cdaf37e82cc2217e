package console

const (
	crtcIndexPort = 0x3d4
	crtcDataPort  = 0x3d5

	crtcRegCursorStart   = 0x0a
	crtcRegStartAddrHigh = 0x0c
	crtcRegStartAddrLow  = 0x0d

	crtcCursorDisable = 1 << 5
)

// PortWriteFn writes a byte to an I/O port.
type PortWriteFn func(port uint16, val uint8)

// CRTC programs the CRT controller registers that select which part of
// adapter memory is scanned out.
type CRTC struct {
	writeFn PortWriteFn
}

// NewCRTC returns a CRTC that uses writeFn for port I/O. A nil writeFn selects
// the CPU's OUT instruction.
func NewCRTC(writeFn PortWriteFn) *CRTC {
	return &CRTC{writeFn: writeFn}
}

func (c *CRTC) write(reg, val uint8) {
	fn := c.writeFn
	if fn == nil {
		fn = portWriteByteFn
	}

	fn(crtcIndexPort, reg)
	fn(crtcDataPort, val)
}

// SetStartAddress makes the adapter display memory starting at offset,
// expressed in character cells from the start of the text window. The high
// byte is written before the low byte.
func (c *CRTC) SetStartAddress(offset uint16) {
	c.write(crtcRegStartAddrHigh, uint8(offset>>8))
	c.write(crtcRegStartAddrLow, uint8(offset))
}

// DisableCursor hides the hardware cursor.
func (c *CRTC) DisableCursor() {
	c.write(crtcRegCursorStart, crtcCursorDisable)
}
