package tty

import (
	"kfs/device/video/console"
	"kfs/kernel"
	"kfs/kernel/kfmt"
)

var (
	// panicFn is mocked by tests.
	panicFn = kfmt.Panic

	errHistoryCapacity  = &kernel.Error{Module: "tty", Message: "history capacity must be positive"}
	errHistoryInvariant = &kernel.Error{Module: "tty", Message: "history indices out of order"}
)

// History is a bounded ring of rows that lie outside the visible grid of a
// screen. Logical rows [0, pivot) are above the grid, oldest first, and rows
// [pivot, length) are below it, nearest first. When the ring is full the
// oldest row is overwritten.
type History struct {
	width    int
	capacity int
	cells    []console.Cell

	head   int
	length int
	pivot  int
}

// NewHistory allocates a ring of capacity rows of width cells each. All
// storage is allocated here; no other method allocates.
func NewHistory(capacity, width int) (*History, *kernel.Error) {
	if capacity <= 0 || width <= 0 {
		return nil, errHistoryCapacity
	}

	return &History{
		width:    width,
		capacity: capacity,
		cells:    make([]console.Cell, capacity*width),
	}, nil
}

// HeadLength returns the number of rows above the grid.
func (h *History) HeadLength() int { return h.pivot }

// TailLength returns the number of rows below the grid.
func (h *History) TailLength() int { return h.length - h.pivot }

// Len returns the number of stored rows.
func (h *History) Len() int { return h.length }

// Cap returns the number of rows the ring can hold.
func (h *History) Cap() int { return h.capacity }

// Full returns true if storing another row requires evicting one.
func (h *History) Full() bool { return h.length == h.capacity }

// Row copies the logical row index into dst.
func (h *History) Row(index int, dst []console.Cell) {
	if index < 0 || index >= h.length {
		return
	}
	copy(dst, h.slot(index))
}

// Reset discards all rows.
func (h *History) Reset() {
	h.head, h.length, h.pivot = 0, 0, 0
}

// PushUpperRow stores newRow as the row immediately above the grid. The row
// that was immediately below the grid is copied into outBottom, or outBottom
// is cleared if there is none. When the ring is full and nothing lies below
// the grid the oldest row is lost.
func (h *History) PushUpperRow(newRow, outBottom []console.Cell) {
	if h.pivot < h.length {
		slot := h.slot(h.pivot)
		copy(outBottom, slot)
		copy(slot, newRow)
		h.pivot++
		h.check()
		return
	}

	clearRow(outBottom)
	if h.length == h.capacity {
		copy(h.slot(0), newRow)
		h.head = (h.head + 1) % h.capacity
	} else {
		copy(h.slot(h.length), newRow)
		h.length++
	}
	h.pivot = h.length
	h.check()
}

// PopUpperRow is the inverse of PushUpperRow. It moves the row immediately
// above the grid into outTop and stores bottomRow as the first row below the
// grid. A blank bottomRow with nothing below it is not stored. PopUpperRow
// returns false and does nothing if no row lies above the grid.
func (h *History) PopUpperRow(outTop, bottomRow []console.Cell) bool {
	if h.pivot == 0 {
		return false
	}

	h.pivot--
	slot := h.slot(h.pivot)
	copy(outTop, slot)

	if h.pivot == h.length-1 && rowIsEmpty(bottomRow) {
		h.length--
	} else {
		copy(slot, bottomRow)
	}

	h.check()
	return true
}

// ShiftRightward inserts carry at the start of the first row below the grid.
// The row moves one cell forward; a non-empty cell pushed out of it is
// inserted at the start of the next row, and so on until a row absorbs the
// shift. A cell pushed out of the last row starts a new row, evicting the
// oldest row above the grid if the ring is full. If the ring is full and no
// row lies above the grid that cell is lost; Overflows reports this case in
// advance. An empty carry is ignored.
func (h *History) ShiftRightward(carry console.Cell) {
	if carry.IsEmpty() {
		return
	}

	for i := h.pivot; i < h.length; i++ {
		row := h.slot(i)
		last := row[h.width-1]
		copy(row[1:], row[:h.width-1])
		row[0] = carry
		if last.IsEmpty() {
			return
		}
		carry = last
	}

	if h.length == h.capacity {
		if h.pivot == 0 {
			return
		}
		h.head = (h.head + 1) % h.capacity
		h.length--
		h.pivot--
	}

	row := h.slot(h.length)
	clearRow(row)
	row[0] = carry
	h.length++
	h.check()
}

// Overflows returns true if the next ShiftRightward would lose a cell: the
// ring is full, every stored row lies below the grid and each of them is
// full, so the shift runs out of the last row.
func (h *History) Overflows() bool {
	if h.length != h.capacity || h.pivot != 0 {
		return false
	}

	for i := h.pivot; i < h.length; i++ {
		if h.slot(i)[h.width-1].IsEmpty() {
			return false
		}
	}
	return true
}

// ShiftLeftward is the inverse of ShiftRightward. It removes and returns the
// first cell of the first row below the grid and moves the rest of the row
// back by one. A full row is refilled from the start of the next row, which
// is closed in turn, until an empty cell is reached. Rows at the end that
// become blank are dropped. If nothing lies below the grid, or the first row
// below it starts with an empty cell, ShiftLeftward returns the empty cell
// and changes nothing.
func (h *History) ShiftLeftward() console.Cell {
	if h.pivot == h.length || h.slot(h.pivot)[0].IsEmpty() {
		return console.EmptyCell
	}

	out := h.slot(h.pivot)[0]
	for i := h.pivot; i < h.length; i++ {
		row := h.slot(i)
		last := row[h.width-1]
		copy(row, row[1:])
		row[h.width-1] = console.EmptyCell

		if last.IsEmpty() || i+1 == h.length {
			break
		}

		next := h.slot(i + 1)[0]
		if next.IsEmpty() {
			break
		}
		row[h.width-1] = next
	}

	for h.length > h.pivot && rowIsEmpty(h.slot(h.length-1)) {
		h.length--
	}

	h.check()
	return out
}

// slot returns the storage of the logical row index.
func (h *History) slot(index int) []console.Cell {
	base := ((h.head + index) % h.capacity) * h.width
	return h.cells[base : base+h.width : base+h.width]
}

func (h *History) check() {
	if h.pivot < 0 || h.pivot > h.length || h.length > h.capacity {
		panicFn(errHistoryInvariant)
	}
}

func clearRow(row []console.Cell) {
	for i := range row {
		row[i] = console.EmptyCell
	}
}

func rowIsEmpty(row []console.Cell) bool {
	for _, c := range row {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}
