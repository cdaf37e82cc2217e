package console

import "image/color"

// DefaultPalette maps the 16 EGA colors to RGB. It is used by tools that
// render adapter memory on the host.
var DefaultPalette = color.Palette{
	color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}, /* black */
	color.RGBA{R: 0x00, G: 0x00, B: 0xaa, A: 0xff}, /* blue */
	color.RGBA{R: 0x00, G: 0xaa, B: 0x00, A: 0xff}, /* green */
	color.RGBA{R: 0x00, G: 0xaa, B: 0xaa, A: 0xff}, /* cyan */
	color.RGBA{R: 0xaa, G: 0x00, B: 0x00, A: 0xff}, /* red */
	color.RGBA{R: 0xaa, G: 0x00, B: 0xaa, A: 0xff}, /* magenta */
	color.RGBA{R: 0xaa, G: 0x55, B: 0x00, A: 0xff}, /* brown */
	color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}, /* light gray */
	color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}, /* dark gray */
	color.RGBA{R: 0x55, G: 0x55, B: 0xff, A: 0xff}, /* light blue */
	color.RGBA{R: 0x55, G: 0xff, B: 0x55, A: 0xff}, /* light green */
	color.RGBA{R: 0x55, G: 0xff, B: 0xff, A: 0xff}, /* light cyan */
	color.RGBA{R: 0xff, G: 0x55, B: 0x55, A: 0xff}, /* light red */
	color.RGBA{R: 0xff, G: 0x55, B: 0xff, A: 0xff}, /* light magenta */
	color.RGBA{R: 0xff, G: 0xff, B: 0x55, A: 0xff}, /* yellow */
	color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, /* white */
}

// RGB returns the palette entry for c.
func (c Color) RGB() color.RGBA {
	return DefaultPalette[c&0xf].(color.RGBA)
}

var (
	// cp437Low holds the glyphs for 0x00-0x1f. The NUL sentinel renders as
	// a blank.
	cp437Low = []rune(" ☺☻♥♦♣♠•◘○◙♂♀♪♫☼►◄↕‼¶§▬↨↑↓→←∟↔▲▼")

	cp437High = []rune("ÇüéâäàåçêëèïîìÄÅÉæÆôöòûùÿÖÜ¢£¥₧ƒáíóúñÑªº¿⌐¬½¼¡«»░▒▓│┤╡╢╖╕╣║╗╝╜╛┐└┴┬├─┼╞╟╚╔╩╦╠═╬╧╨╤╥╙╘╒╓╫╪┘┌█▄▌▐▀αßΓπΣσµτΦΘΩδ∞φε∩≡±≥≤⌠⌡÷≈°∙·√ⁿ²■ ")
)

// Glyph returns the unicode rune that the adapter's CP437 font draws for ch.
func Glyph(ch byte) rune {
	switch {
	case ch < 0x20:
		return cp437Low[ch]
	case ch < 0x7f:
		return rune(ch)
	case ch == 0x7f:
		return '⌂'
	default:
		return cp437High[ch-0x80]
	}
}
