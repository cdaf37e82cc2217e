package console

// Color is one of the 16 EGA text-mode colors.
type Color uint8

// The EGA colors. Only the first 8 can be used as background colors when
// the adapter runs with blinking enabled.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// Attribute packs a foreground color in its low nibble and a background color
// in its high nibble.
type Attribute uint8

// MakeAttribute returns the attribute for the given color pair.
func MakeAttribute(fg, bg Color) Attribute {
	return Attribute(fg&0xf) | Attribute(bg&0xf)<<4
}

// Fg returns the foreground color.
func (a Attribute) Fg() Color { return Color(a & 0xf) }

// Bg returns the background color.
func (a Attribute) Bg() Color { return Color(a >> 4) }

const (
	// DefaultAttribute is light gray text on a black background.
	DefaultAttribute = Attribute(LightGray)

	// PlaceholderGlyph is the CP437 diamond used to render bytes that have
	// no printable representation.
	PlaceholderGlyph = byte(0x04)
)

// Cell is a character and its attribute, the unit of display memory.
type Cell struct {
	Ch   byte
	Attr Attribute
}

// EmptyCell is the sentinel for unused space.
var EmptyCell = Cell{}

// IsEmpty returns true for the sentinel value (a zero character byte).
func (c Cell) IsEmpty() bool {
	return c.Ch == 0
}

// Word returns the cell in the layout used by adapter memory.
func (c Cell) Word() uint16 {
	return uint16(c.Attr)<<8 | uint16(c.Ch)
}

// CellFromWord decodes a cell stored in adapter memory.
func CellFromWord(w uint16) Cell {
	return Cell{Ch: byte(w), Attr: Attribute(w >> 8)}
}
