package tty

// Cursor is a position inside the visible grid of a screen.
type Cursor struct {
	Row    int
	Column int
}
