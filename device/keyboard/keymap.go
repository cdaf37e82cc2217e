package keyboard

import "kfs/device/tty"

// key holds the bytes produced by a set 1 make code without and with shift.
type key struct {
	normal  byte
	shifted byte
}

// keymap is indexed by make code. Keys that produce no byte map to zero.
var keymap = [...]key{
	0x02: {'1', '!'}, 0x03: {'2', '@'}, 0x04: {'3', '#'}, 0x05: {'4', '$'},
	0x06: {'5', '%'}, 0x07: {'6', '^'}, 0x08: {'7', '&'}, 0x09: {'8', '*'},
	0x0a: {'9', '('}, 0x0b: {'0', ')'}, 0x0c: {'-', '_'}, 0x0d: {'=', '+'},
	0x0e: {tty.CtrlBackspace, tty.CtrlBackspace},
	0x0f: {'\t', '\t'},
	0x10: {'q', 'Q'}, 0x11: {'w', 'W'}, 0x12: {'e', 'E'}, 0x13: {'r', 'R'},
	0x14: {'t', 'T'}, 0x15: {'y', 'Y'}, 0x16: {'u', 'U'}, 0x17: {'i', 'I'},
	0x18: {'o', 'O'}, 0x19: {'p', 'P'}, 0x1a: {'[', '{'}, 0x1b: {']', '}'},
	0x1c: {'\n', '\n'},
	0x1e: {'a', 'A'}, 0x1f: {'s', 'S'}, 0x20: {'d', 'D'}, 0x21: {'f', 'F'},
	0x22: {'g', 'G'}, 0x23: {'h', 'H'}, 0x24: {'j', 'J'}, 0x25: {'k', 'K'},
	0x26: {'l', 'L'}, 0x27: {';', ':'}, 0x28: {'\'', '"'}, 0x29: {'`', '~'},
	0x2b: {'\\', '|'},
	0x2c: {'z', 'Z'}, 0x2d: {'x', 'X'}, 0x2e: {'c', 'C'}, 0x2f: {'v', 'V'},
	0x30: {'b', 'B'}, 0x31: {'n', 'N'}, 0x32: {'m', 'M'}, 0x33: {',', '<'},
	0x34: {'.', '>'}, 0x35: {'/', '?'},
	0x37: {'*', '*'},
	0x39: {' ', ' '},
	0x47: {'7', '7'}, 0x48: {'8', '8'}, 0x49: {'9', '9'}, 0x4a: {'-', '-'},
	0x4b: {'4', '4'}, 0x4c: {'5', '5'}, 0x4d: {'6', '6'}, 0x4e: {'+', '+'},
	0x4f: {'1', '1'}, 0x50: {'2', '2'}, 0x51: {'3', '3'}, 0x52: {'0', '0'},
	0x53: {'.', '.'},
}

// extendedKeys maps the make codes that follow an 0xe0 prefix.
var extendedKeys = [...]byte{
	0x1c: '\n',
	0x35: '/',
	0x48: tty.CtrlUp,
	0x49: tty.CtrlPageUp,
	0x4b: tty.CtrlLeft,
	0x4d: tty.CtrlRight,
	0x50: tty.CtrlDown,
	0x51: tty.CtrlPageDown,
	0x53: tty.CtrlDelete,
}
