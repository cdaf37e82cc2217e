// Package keyboard decodes the scancodes of a PS/2 keyboard into the byte
// stream and actions consumed by the console.
package keyboard

import (
	"io"
	"kfs/device/tty"
	"kfs/kernel"
	"kfs/kernel/cpu"
	"kfs/kernel/kfmt"
)

const (
	dataPort   = 0x60
	statusPort = 0x64

	statusOutputFull = 1 << 0

	// maxFlush bounds the number of stale bytes discarded by DriverInit.
	maxFlush = 16

	prefixExtended = 0xe0
	releaseBit     = 0x80

	codeLeftCtrl   = 0x1d
	codeLeftShift  = 0x2a
	codeRightShift = 0x36
	codeLeftAlt    = 0x38
	codeCapsLock   = 0x3a
	codeF1         = 0x3b
	codeP          = 0x19
)

var portReadByteFn = cpu.PortReadByte

// EventKind identifies what a decoded scancode asks the console to do.
type EventKind uint8

const (
	// EventNone means the scancode only updated the decoder state.
	EventNone EventKind = iota

	// EventByte carries a byte for the visible screen.
	EventByte

	// EventSwitch asks for another screen to be shown.
	EventSwitch

	// EventBanner asks for the banner to be printed.
	EventBanner
)

// Event is the result of decoding one scancode.
type Event struct {
	Kind EventKind

	// Byte is set for EventByte.
	Byte byte

	// Screen is set for EventSwitch.
	Screen int
}

// Decoder translates scancode set 1 into events. It tracks the modifier
// keys and the 0xe0 prefix between calls; it is only used from the keyboard
// interrupt handler.
type Decoder struct {
	shift    bool
	ctrl     bool
	capsLock bool
	extended bool
}

// Decode processes one scancode.
func (d *Decoder) Decode(code uint8) Event {
	if code == prefixExtended {
		d.extended = true
		return Event{}
	}

	released := code&releaseBit != 0
	code &^= releaseBit

	if d.extended {
		d.extended = false
		return d.decodeExtended(code, released)
	}

	switch code {
	case codeLeftShift, codeRightShift:
		d.shift = !released
		return Event{}
	case codeLeftCtrl:
		d.ctrl = !released
		return Event{}
	case codeLeftAlt:
		return Event{}
	case codeCapsLock:
		if !released {
			d.capsLock = !d.capsLock
		}
		return Event{}
	}

	if released {
		return Event{}
	}

	if code >= codeF1 && code < codeF1+tty.ScreenCount {
		return Event{Kind: EventSwitch, Screen: int(code - codeF1)}
	}

	if d.ctrl {
		if code == codeP && !d.shift {
			return Event{Kind: EventBanner}
		}
		return Event{}
	}

	if int(code) >= len(keymap) {
		return Event{}
	}

	k := keymap[code]
	b := k.normal
	if d.upper(k) {
		b = k.shifted
	}

	if b == 0 {
		return Event{}
	}
	return Event{Kind: EventByte, Byte: b}
}

// upper reports whether the shifted byte of k should be produced. Caps lock
// only affects letters.
func (d *Decoder) upper(k key) bool {
	if k.normal >= 'a' && k.normal <= 'z' {
		return d.shift != d.capsLock
	}
	return d.shift
}

func (d *Decoder) decodeExtended(code uint8, released bool) Event {
	if code == codeLeftCtrl {
		d.ctrl = !released
		return Event{}
	}

	if released {
		return Event{}
	}

	if int(code) >= len(extendedKeys) || extendedKeys[code] == 0 {
		return Event{}
	}
	return Event{Kind: EventByte, Byte: extendedKeys[code]}
}

// ReadScancode reads the pending scancode from the controller.
func ReadScancode() uint8 {
	return portReadByteFn(dataPort)
}

// Driver is the PS/2 keyboard driver.
type Driver struct{}

// DriverName returns the name of this driver.
func (*Driver) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (*Driver) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit discards any scancodes left in the controller output buffer so
// the first interrupt carries a fresh key press.
func (*Driver) DriverInit(w io.Writer) *kernel.Error {
	flushed := 0
	for ; flushed < maxFlush && portReadByteFn(statusPort)&statusOutputFull != 0; flushed++ {
		portReadByteFn(dataPort)
	}

	kfmt.Fprintf(w, "discarded %d stale scancodes\n", flushed)
	return nil
}
