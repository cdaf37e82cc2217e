package tty

import "kfs/device/video/console"

// ShiftUpward moves the grid content up by one row. The top row is pushed
// into the history and the bottom row is refilled from the rows below the
// grid, or cleared if there are none.
func (s *Screen) ShiftUpward() {
	s.grid.Row(0, s.top)
	s.history.PushUpperRow(s.top, s.bottom)

	for row := 1; row < s.height; row++ {
		s.grid.CopyRow(row-1, row)
	}
	s.grid.SetRow(s.height-1, s.bottom)
}

// ShiftDownward moves the grid content down by one row, pulling the row
// above the grid back into view. It returns false and leaves the grid alone
// if no row lies above the grid.
func (s *Screen) ShiftDownward() bool {
	s.grid.Row(s.height-1, s.bottom)
	if !s.history.PopUpperRow(s.top, s.bottom) {
		return false
	}

	for row := s.height - 1; row > 0; row-- {
		s.grid.CopyRow(row, row-1)
	}
	s.grid.SetRow(0, s.top)
	return true
}

// ShiftRightward opens a gap at (row, col). The cells from (row, col) to the
// end of the row move one position forward. A non-empty cell pushed past the
// right edge is inserted at the start of the next row, and so on until a row
// absorbs the shift; a cell pushed out of the last row goes to the history.
//
// If that cell would be lost because the history is full and has no row
// above the grid, the grid first scrolls up by one row so the history can
// evict its oldest row; the cursor row follows. When the gap is on the first
// row the grid cannot scroll without moving the gap out of view, so the last
// cell of the document is dropped instead of the oldest history row.
func (s *Screen) ShiftRightward(row, col int) {
	if row > 0 && s.spills(row) && s.history.Overflows() {
		s.ShiftUpward()
		row--
		if s.cursor.Row > 0 {
			s.cursor.Row--
		}
	}

	carry := console.EmptyCell
	for r, start := row, col; r < s.height; r, start = r+1, 0 {
		out := s.grid.Cell(r, s.width-1)
		for c := s.width - 1; c > start; c-- {
			s.grid.SetCell(r, c, s.grid.Cell(r, c-1))
		}
		s.grid.SetCell(r, start, carry)

		if out.IsEmpty() {
			return
		}
		carry = out
	}

	s.history.ShiftRightward(carry)
}

// ShiftLeftward closes the gap at (row, col). The cell at (row, col) is
// removed and the rest of the row moves one position back. If the row was
// full its last cell is refilled with the first cell of the next row, which
// is closed in turn; the cascade stops at an empty cell or continues into the
// history past the last row.
func (s *Screen) ShiftLeftward(row, col int) {
	for r, start := row, col; r < s.height; r, start = r+1, 0 {
		last := s.grid.Cell(r, s.width-1)
		for c := start; c < s.width-1; c++ {
			s.grid.SetCell(r, c, s.grid.Cell(r, c+1))
		}

		if last.IsEmpty() {
			s.grid.SetCell(r, s.width-1, console.EmptyCell)
			return
		}

		if r+1 == s.height {
			s.grid.SetCell(r, s.width-1, s.history.ShiftLeftward())
			return
		}

		next := s.grid.Cell(r+1, 0)
		s.grid.SetCell(r, s.width-1, next)
		if next.IsEmpty() {
			return
		}
	}
}

// spills returns true if a gap opened on row would push a cell out of the
// last row of the grid.
func (s *Screen) spills(row int) bool {
	for r := row; r < s.height; r++ {
		if s.grid.Cell(r, s.width-1).IsEmpty() {
			return false
		}
	}
	return true
}

// DelByte removes the character left of the cursor.
func (s *Screen) DelByte() {
	if s.MoveCursorLeft() {
		s.ShiftLeftward(s.cursor.Row, s.cursor.Column)
	}
}

// SupprByte removes the character under the cursor. It does nothing at the
// last cell of the grid when no row lies below it.
func (s *Screen) SupprByte() {
	if s.cursor.Row == s.height-1 && s.cursor.Column == s.width-1 && s.history.TailLength() == 0 {
		return
	}
	s.ShiftLeftward(s.cursor.Row, s.cursor.Column)
}

// MoveCursorLeft moves the cursor one cell back, crossing to the end of the
// text on the previous row or pulling a row out of the history when needed.
// It returns false if the cursor is at the very start of the document.
func (s *Screen) MoveCursorLeft() bool {
	switch {
	case s.cursor.Column > 0:
		s.cursor.Column--
	case s.cursor.Row > 0:
		s.cursor.Row--
		s.cursor.Column = s.width - 1
		s.LeftAlignCursor()
	case s.ShiftDownward():
		s.cursor.Column = s.width - 1
		s.LeftAlignCursor()
	default:
		return false
	}
	return true
}

// MoveCursorRight moves the cursor one cell forward. The cursor never moves
// past the end of the text and only scrolls the grid at the last cell if rows
// lie below it.
func (s *Screen) MoveCursorRight() bool {
	if s.cell(s.cursor.Row, s.cursor.Column).IsEmpty() {
		return false
	}

	switch {
	case s.cursor.Column+1 < s.width:
		s.cursor.Column++
	case s.cursor.Row+1 < s.height:
		s.cursor.Row++
		s.cursor.Column = 0
	case s.history.TailLength() > 0:
		s.ShiftUpward()
		s.cursor.Column = 0
	default:
		return false
	}
	return true
}

// MoveCursorUp moves the cursor to the previous row, scrolling the history
// back into view at the top of the grid.
func (s *Screen) MoveCursorUp() bool {
	if s.cursor.Row > 0 {
		s.cursor.Row--
	} else if !s.ShiftDownward() {
		return false
	}

	s.LeftAlignCursor()
	return true
}

// MoveCursorDown moves the cursor to the next row, scrolling the rows below
// the grid into view at the bottom of the grid.
func (s *Screen) MoveCursorDown() bool {
	switch {
	case s.cursor.Row+1 < s.height:
		s.cursor.Row++
	case s.history.TailLength() > 0:
		s.ShiftUpward()
	default:
		return false
	}

	s.LeftAlignCursor()
	return true
}

// LeftAlignCursor moves the cursor back to the first empty cell of its row
// if it lies past it, so that no empty cell precedes the cursor.
func (s *Screen) LeftAlignCursor() {
	for col := 0; col < s.cursor.Column; col++ {
		if s.cell(s.cursor.Row, col).IsEmpty() {
			s.cursor.Column = col
			return
		}
	}
}

// ScrollUp shows the row above the grid. The cursor keeps its position on
// the screen.
func (s *Screen) ScrollUp() bool {
	if s.history.HeadLength() == 0 {
		return false
	}

	s.ShiftDownward()
	s.LeftAlignCursor()
	return true
}

// ScrollDown shows the row below the grid. The cursor keeps its position on
// the screen.
func (s *Screen) ScrollDown() bool {
	if s.history.TailLength() == 0 {
		return false
	}

	s.ShiftUpward()
	s.LeftAlignCursor()
	return true
}
