package irq

import "kfs/kernel/cpu"

const (
	picCmdInit           = 0x11
	picCmdEndOfInterrupt = 0x20
	picMode8086          = 0x01

	// Writes to this unused port take long enough to give older PICs time
	// to process a command.
	ioWaitPort = 0x80
)

var (
	portWriteByteFn = cpu.PortWriteByte
	portReadByteFn  = cpu.PortReadByte
)

// pic8259 describes one 8259 chip.
type pic8259 struct {
	offset  uint8
	command uint16
	data    uint16
}

func (p *pic8259) handles(vector uint8) bool {
	return p.offset <= vector && vector < p.offset+8
}

// PIC drives the standard pair of chained 8259 interrupt controllers.
type PIC struct {
	chips [2]pic8259
}

// NewPIC returns a PIC for the controllers at the standard ports. The IRQ
// vector offsets take effect after a call to Remap.
func NewPIC(offset1, offset2 uint8) *PIC {
	return &PIC{
		chips: [2]pic8259{
			{offset: offset1, command: 0x20, data: 0x21},
			{offset: offset2, command: 0xa0, data: 0xa1},
		},
	}
}

// Remap runs the ICW1-ICW4 initialization sequence on both chips so that IRQs
// 0-7 and 8-15 are delivered at the configured vector offsets. The interrupt
// masks are preserved.
func (p *PIC) Remap() {
	wait := func() { portWriteByteFn(ioWaitPort, 0) }
	m1, m2 := p.Masks()

	portWriteByteFn(p.chips[0].command, picCmdInit)
	wait()
	portWriteByteFn(p.chips[1].command, picCmdInit)
	wait()

	portWriteByteFn(p.chips[0].data, p.chips[0].offset)
	wait()
	portWriteByteFn(p.chips[1].data, p.chips[1].offset)
	wait()

	// The secondary chip is cascaded on IRQ2 of the primary one.
	portWriteByteFn(p.chips[0].data, 4)
	wait()
	portWriteByteFn(p.chips[1].data, 2)
	wait()

	portWriteByteFn(p.chips[0].data, picMode8086)
	wait()
	portWriteByteFn(p.chips[1].data, picMode8086)
	wait()

	p.SetMasks(m1, m2)
}

// Masks returns the interrupt masks of both chips.
func (p *PIC) Masks() (uint8, uint8) {
	return portReadByteFn(p.chips[0].data), portReadByteFn(p.chips[1].data)
}

// SetMasks updates the interrupt masks of both chips. A set bit masks the
// corresponding IRQ line.
func (p *PIC) SetMasks(m1, m2 uint8) {
	portWriteByteFn(p.chips[0].data, m1)
	portWriteByteFn(p.chips[1].data, m2)
}

// Handles returns true if vector is delivered by one of the two chips.
func (p *PIC) Handles(vector uint8) bool {
	return p.chips[0].handles(vector) || p.chips[1].handles(vector)
}

// Vector returns the interrupt vector for the specified IRQ line.
func (p *PIC) Vector(line Line) uint8 {
	if line < 8 {
		return p.chips[0].offset + uint8(line)
	}
	return p.chips[1].offset + uint8(line-8)
}

// EndOfInterrupt acknowledges vector. Interrupts raised by the secondary chip
// must be acknowledged on both chips.
func (p *PIC) EndOfInterrupt(vector uint8) {
	if !p.Handles(vector) {
		return
	}

	if p.chips[1].handles(vector) {
		portWriteByteFn(p.chips[1].command, picCmdEndOfInterrupt)
	}
	portWriteByteFn(p.chips[0].command, picCmdEndOfInterrupt)
}
