package vgarender

import (
	"bytes"
	"image/png"
	"kfs/device/video/console"
	"testing"
)

func newTestGrid(t *testing.T) *console.Grid {
	t.Helper()

	grid, err := console.NewGrid(make([]uint16, 10*3), 10, 3)
	if err != nil {
		t.Fatal(err)
	}

	grid.SetCell(1, 2, console.Cell{Ch: ' ', Attr: console.MakeAttribute(console.White, console.Blue)})
	grid.SetCell(2, 9, console.Cell{Ch: 'A', Attr: console.MakeAttribute(console.Yellow, console.Red)})
	return grid
}

func TestRender(t *testing.T) {
	img := Render(newTestGrid(t))

	if got := img.Bounds().Size(); got.X != 10*CellWidth || got.Y != 3*CellHeight {
		t.Fatalf("expected a %dx%d image; got %dx%d", 10*CellWidth, 3*CellHeight, got.X, got.Y)
	}

	specs := []struct {
		x, y int
		exp  console.Color
	}{
		// empty cells use the default black background
		{3, 3, console.Black},
		{2*CellWidth + 4, 1*CellHeight + 8, console.Blue},
		// top-left pixel of the glyph box lies above the ascent
		{9 * CellWidth, 2 * CellHeight, console.Red},
	}

	for specIndex, spec := range specs {
		r, g, b, _ := img.At(spec.x, spec.y).RGBA()
		exp := spec.exp.RGB()
		if uint8(r>>8) != exp.R || uint8(g>>8) != exp.G || uint8(b>>8) != exp.B {
			t.Errorf("[spec %d] expected pixel (%d, %d) to be %v; got (%d, %d, %d)", specIndex, spec.x, spec.y, exp, r>>8, g>>8, b>>8)
		}
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, newTestGrid(t)); err != nil {
		t.Fatal(err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.Bounds().Dx(); got != 10*CellWidth {
		t.Errorf("expected decoded width %d; got %d", 10*CellWidth, got)
	}
}
