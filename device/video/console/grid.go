package console

import (
	"kfs/kernel"
	"kfs/kernel/mmio"
	"unsafe"
)

var errGridTooSmall = &kernel.Error{Module: "console", Message: "framebuffer too small for grid"}

// MapFramebuffer returns a slice of words overlaid on the adapter memory at
// physAddr. This is the only place where the console turns a raw address into
// memory it can touch; everything else goes through the bounds-checked Grid
// accessors. The region must be identity mapped.
func MapFramebuffer(physAddr uintptr, words int) []uint16 {
	return unsafe.Slice((*uint16)(unsafe.Pointer(physAddr)), words)
}

// Grid is a width x height view over a region of adapter memory. Every
// access is a single non-elidable 16-bit load or store since the adapter
// scans the memory out concurrently.
type Grid struct {
	width  int
	height int
	cells  []uint16
}

// NewGrid returns a grid over the first width*height words of fb.
func NewGrid(fb []uint16, width, height int) (*Grid, *kernel.Error) {
	if width <= 0 || height <= 0 || len(fb) < width*height {
		return nil, errGridTooSmall
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  fb[: width*height : width*height],
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Cell returns the cell at (row, col).
func (g *Grid) Cell(row, col int) Cell {
	return CellFromWord(mmio.LoadUint16(&g.cells[g.index(row, col)]))
}

// SetCell stores c at (row, col).
func (g *Grid) SetCell(row, col int, c Cell) {
	mmio.StoreUint16(&g.cells[g.index(row, col)], c.Word())
}

// Row copies the contents of row into dst, which must hold Width() cells.
func (g *Grid) Row(row int, dst []Cell) {
	base := g.index(row, 0)
	for col := range dst[:g.width] {
		dst[col] = CellFromWord(mmio.LoadUint16(&g.cells[base+col]))
	}
}

// SetRow stores src, which must hold Width() cells, into row.
func (g *Grid) SetRow(row int, src []Cell) {
	base := g.index(row, 0)
	for col, c := range src[:g.width] {
		mmio.StoreUint16(&g.cells[base+col], c.Word())
	}
}

// CopyRow copies row src over row dst.
func (g *Grid) CopyRow(dst, src int) {
	dBase, sBase := g.index(dst, 0), g.index(src, 0)
	for col := 0; col < g.width; col++ {
		mmio.StoreUint16(&g.cells[dBase+col], mmio.LoadUint16(&g.cells[sBase+col]))
	}
}

// FillRow stores c in every cell of row.
func (g *Grid) FillRow(row int, c Cell) {
	base, w := g.index(row, 0), c.Word()
	for col := 0; col < g.width; col++ {
		mmio.StoreUint16(&g.cells[base+col], w)
	}
}

// Fill stores c in every cell of the grid.
func (g *Grid) Fill(c Cell) {
	for row := 0; row < g.height; row++ {
		g.FillRow(row, c)
	}
}

// index converts a position to an offset; rows and columns outside the grid
// make the slice access that follows fail instead of touching memory that
// belongs to another grid.
func (g *Grid) index(row, col int) int {
	if uint(row) >= uint(g.height) || uint(col) >= uint(g.width) {
		return len(g.cells)
	}
	return row*g.width + col
}
