package console

import (
	"testing"
	"unsafe"
)

func TestNewGrid(t *testing.T) {
	specs := []struct {
		fbLen, w, h int
		expErr      bool
	}{
		{80 * 25, 80, 25, false},
		{80*25 + 10, 80, 25, false},
		{80*25 - 1, 80, 25, true},
		{10, 0, 1, true},
		{10, 1, -1, true},
	}

	for specIndex, spec := range specs {
		g, err := NewGrid(make([]uint16, spec.fbLen), spec.w, spec.h)
		if spec.expErr {
			if err != errGridTooSmall {
				t.Errorf("[spec %d] expected errGridTooSmall; got %v", specIndex, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("[spec %d] unexpected error: %v", specIndex, err)
			continue
		}

		if g.Width() != spec.w || g.Height() != spec.h {
			t.Errorf("[spec %d] expected grid %dx%d; got %dx%d", specIndex, spec.w, spec.h, g.Width(), g.Height())
		}
	}
}

func TestGridCellAccess(t *testing.T) {
	fb := make([]uint16, 4*3+1)
	fb[len(fb)-1] = 0xdead
	g, _ := NewGrid(fb, 4, 3)

	c := Cell{Ch: 'x', Attr: 0x1e}
	g.SetCell(2, 3, c)

	if fb[2*4+3] != c.Word() {
		t.Fatalf("expected SetCell to store 0x%x at offset 11; got 0x%x", c.Word(), fb[11])
	}

	if got := g.Cell(2, 3); got != c {
		t.Fatalf("expected Cell to return %v; got %v", c, got)
	}

	// Accesses outside the grid must never reach the word past its end.
	for _, pos := range [][2]int{{3, 0}, {0, 4}, {-1, 0}, {0, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected access at %v to fail", pos)
				}
			}()
			g.SetCell(pos[0], pos[1], c)
		}()
	}

	if fb[len(fb)-1] != 0xdead {
		t.Fatal("expected memory past the grid to be left untouched")
	}
}

func TestGridRows(t *testing.T) {
	fb := make([]uint16, 3*3)
	g, _ := NewGrid(fb, 3, 3)

	row := []Cell{{Ch: 'a', Attr: 7}, {Ch: 'b', Attr: 7}, {Ch: 'c', Attr: 7}}
	g.SetRow(0, row)
	g.CopyRow(2, 0)
	g.FillRow(1, Cell{Ch: '-', Attr: 2})

	got := make([]Cell, 3)
	g.Row(2, got)
	for col := range row {
		if got[col] != row[col] {
			t.Errorf("expected copied row cell %d to be %v; got %v", col, row[col], got[col])
		}
	}

	for col := 0; col < 3; col++ {
		if c := g.Cell(1, col); c != (Cell{Ch: '-', Attr: 2}) {
			t.Errorf("expected filled cell (1, %d); got %v", col, c)
		}
	}

	g.Fill(EmptyCell)
	for i, w := range fb {
		if w != 0 {
			t.Errorf("expected word %d to be cleared; got 0x%x", i, w)
		}
	}
}

func TestMapFramebuffer(t *testing.T) {
	backing := make([]uint16, 16)
	fb := MapFramebuffer(uintptr(unsafe.Pointer(&backing[0])), len(backing))

	fb[5] = 0x0741
	if backing[5] != 0x0741 || len(fb) != len(backing) {
		t.Fatal("expected the mapped slice to alias the supplied address")
	}
}
