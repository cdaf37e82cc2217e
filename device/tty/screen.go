package tty

import (
	"kfs/device/video/console"
	"kfs/kernel"
)

// Mode selects how a screen interprets the bytes written to it.
type Mode uint8

const (
	// ModeNormal overwrites cells and is used for log output.
	ModeNormal Mode = iota

	// ModeInput inserts characters and interprets the control bytes.
	ModeInput
)

var errScreenGrid = &kernel.Error{Module: "tty", Message: "screen requires a grid"}

// rainbow lists the foreground colors cycled by NextRainbowColor.
var rainbow = [...]console.Color{
	console.Black,
	console.White,
	console.Red,
	console.Yellow,
	console.Green,
	console.Cyan,
	console.Blue,
	console.Magenta,
}

const banner = `
        :::      ::::::::
      :+:      :+:    :+:
    +:+ +:+         +:+
  +#+  +:+       +#+
+#+#+#+#+#+   +#+
     #+#    #+#
    ###   ########.fr`

// Screen is a text console backed by a grid of adapter memory.
type Screen struct {
	grid    *console.Grid
	history *History
	width   int
	height  int

	cursor Cursor
	attr   console.Attribute
	mode   Mode

	// Cursor highlight state. savedAttr is the attribute of the cell at
	// highlightPos before the highlight was applied.
	highlighted  bool
	highlightPos Cursor
	savedAttr    console.Attribute

	// Scratch rows used when moving rows between the grid and the history.
	top, bottom []console.Cell
}

// NewScreen returns a screen drawing to grid with a scrollback of historyRows.
func NewScreen(grid *console.Grid, historyRows int) (*Screen, *kernel.Error) {
	if grid == nil {
		return nil, errScreenGrid
	}

	history, err := NewHistory(historyRows, grid.Width())
	if err != nil {
		return nil, err
	}

	return &Screen{
		grid:    grid,
		history: history,
		width:   grid.Width(),
		height:  grid.Height(),
		attr:    console.DefaultAttribute,
		top:     make([]console.Cell, grid.Width()),
		bottom:  make([]console.Cell, grid.Width()),
	}, nil
}

// Dimensions returns the number of columns and rows of the screen.
func (s *Screen) Dimensions() (int, int) {
	return s.width, s.height
}

// Cursor returns the cursor position.
func (s *Screen) Cursor() Cursor {
	return s.cursor
}

// History returns the scrollback of the screen.
func (s *Screen) History() *History {
	return s.history
}

// Mode returns the current mode.
func (s *Screen) Mode() Mode {
	return s.mode
}

// SetMode switches the screen to mode m. The cursor highlight is only shown
// in input mode.
func (s *Screen) SetMode(m Mode) {
	s.clearHighlight()
	s.mode = m
	s.applyHighlight()
}

// Color returns the attribute used for new characters.
func (s *Screen) Color() console.Attribute {
	return s.attr
}

// SetColor sets the attribute used for new characters.
func (s *Screen) SetColor(attr console.Attribute) {
	s.attr = attr
}

// NextRainbowColor advances the foreground color along the rainbow sequence.
// Colors outside the sequence restart it.
func (s *Screen) NextRainbowColor() {
	next := rainbow[0]
	for i, c := range rainbow {
		if c == s.attr.Fg() {
			next = rainbow[(i+1)%len(rainbow)]
			break
		}
	}

	s.attr = console.MakeAttribute(next, s.attr.Bg())
}

// PrintBanner writes the rainbow banner, one color per line, and restores
// the previous color.
func (s *Screen) PrintBanner() {
	prev := s.attr
	s.attr = console.MakeAttribute(console.Black, console.Black)

	s.clearHighlight()
	for i := 0; i < len(banner); i++ {
		s.put(banner[i])
		if banner[i] == '\n' {
			s.NextRainbowColor()
		}
	}
	s.put('\n')
	s.applyHighlight()

	s.attr = prev
}

// Clear blanks the grid, drops the history and homes the cursor.
func (s *Screen) Clear() {
	s.highlighted = false
	s.grid.Fill(console.EmptyCell)
	s.history.Reset()
	s.cursor = Cursor{}
	s.applyHighlight()
}

// Snapshot renders the grid as text, one line per row. Empty cells become
// spaces and trailing spaces are trimmed.
func (s *Screen) Snapshot() []string {
	lines := make([]string, s.height)
	buf := make([]byte, s.width)
	for row := 0; row < s.height; row++ {
		end := 0
		for col := 0; col < s.width; col++ {
			c := s.cell(row, col)
			if c.IsEmpty() {
				buf[col] = ' '
				continue
			}
			buf[col] = c.Ch
			end = col + 1
		}
		lines[row] = string(buf[:end])
	}
	return lines
}

// Write implements io.Writer. The cursor highlight is removed before the
// bytes are processed and restored afterwards.
func (s *Screen) Write(p []byte) (int, error) {
	s.clearHighlight()
	for _, b := range p {
		s.put(b)
	}
	s.applyHighlight()

	return len(p), nil
}

// WriteByte implements io.ByteWriter.
func (s *Screen) WriteByte(b byte) error {
	s.clearHighlight()
	s.put(b)
	s.applyHighlight()
	return nil
}

func (s *Screen) put(b byte) {
	if b == '\n' {
		s.newLine()
		return
	}

	if s.mode == ModeNormal {
		s.store(displayByte(b))
		return
	}

	switch b {
	case CtrlBackspace:
		s.DelByte()
	case CtrlDelete:
		s.SupprByte()
	case CtrlUp:
		s.MoveCursorUp()
	case CtrlDown:
		s.MoveCursorDown()
	case CtrlLeft:
		s.MoveCursorLeft()
	case CtrlRight:
		s.MoveCursorRight()
	case CtrlPageUp:
		s.ScrollUp()
	case CtrlPageDown:
		s.ScrollDown()
	default:
		s.ShiftRightward(s.cursor.Row, s.cursor.Column)
		s.store(displayByte(b))
	}
}

// store writes ch at the cursor and advances it, wrapping to the next row
// as soon as the current one is full.
func (s *Screen) store(ch byte) {
	s.grid.SetCell(s.cursor.Row, s.cursor.Column, console.Cell{Ch: ch, Attr: s.attr})
	s.cursor.Column++
	if s.cursor.Column == s.width {
		s.newLine()
	}
}

// newLine moves the cursor to the start of the next row, scrolling the grid
// when the cursor is on the last row.
func (s *Screen) newLine() {
	s.cursor.Column = 0
	if s.cursor.Row+1 < s.height {
		s.cursor.Row++
		return
	}
	s.ShiftUpward()
}

// cell returns the cell at (row, col) as it would look without the cursor
// highlight.
func (s *Screen) cell(row, col int) console.Cell {
	c := s.grid.Cell(row, col)
	if s.highlighted && s.highlightPos.Row == row && s.highlightPos.Column == col {
		c.Attr = s.savedAttr
	}
	return c
}

func (s *Screen) clearHighlight() {
	if !s.highlighted {
		return
	}

	c := s.grid.Cell(s.highlightPos.Row, s.highlightPos.Column)
	c.Attr = s.savedAttr
	s.grid.SetCell(s.highlightPos.Row, s.highlightPos.Column, c)
	s.highlighted = false
}

func (s *Screen) applyHighlight() {
	if s.mode != ModeInput || s.highlighted {
		return
	}

	c := s.grid.Cell(s.cursor.Row, s.cursor.Column)
	s.savedAttr = c.Attr
	s.highlightPos = s.cursor
	c.Attr = CursorAttribute
	s.grid.SetCell(s.cursor.Row, s.cursor.Column, c)
	s.highlighted = true
}
