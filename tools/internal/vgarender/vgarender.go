// Package vgarender draws text grids the way the adapter scans them out, one
// 8x16 pixel box per cell.
package vgarender

import (
	"image"
	"io"
	"kfs/device/video/console"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	// CellWidth and CellHeight are the pixel dimensions of a character box.
	CellWidth  = 8
	CellHeight = 16

	baseline = 12
)

// Render draws every cell of grid. Empty cells are drawn as blanks in their
// background color.
func Render(grid *console.Grid) image.Image {
	return draw(grid).Image()
}

// WritePNG renders grid and writes it to w as a PNG image.
func WritePNG(w io.Writer, grid *console.Grid) error {
	return draw(grid).EncodePNG(w)
}

// SavePNG renders grid into a PNG file at path.
func SavePNG(path string, grid *console.Grid) error {
	return gg.SavePNG(path, Render(grid))
}

func draw(grid *console.Grid) *gg.Context {
	dc := gg.NewContext(grid.Width()*CellWidth, grid.Height()*CellHeight)
	dc.SetFontFace(basicfont.Face7x13)

	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			c := grid.Cell(row, col)

			x := float64(col * CellWidth)
			y := float64(row * CellHeight)

			dc.SetColor(c.Attr.Bg().RGB())
			dc.DrawRectangle(x, y, CellWidth, CellHeight)
			dc.Fill()

			if c.IsEmpty() || c.Ch == ' ' {
				continue
			}

			dc.SetColor(c.Attr.Fg().RGB())
			dc.DrawString(string(console.Glyph(c.Ch)), x, y+baseline)
		}
	}

	return dc
}
