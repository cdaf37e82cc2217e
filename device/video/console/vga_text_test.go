package console

import (
	"bytes"
	"kfs/kernel"
	"strings"
	"testing"
)

func TestVgaTextDriverInfo(t *testing.T) {
	drv := NewVgaText(DefaultColumns, DefaultRows, 8, TextWindowPhysAddr, nil)

	if drv.DriverName() != "vga_text_console" {
		t.Fatalf("unexpected driver name %q", drv.DriverName())
	}

	if major, minor, patch := drv.DriverVersion(); major != 0 || minor != 1 || patch != 0 {
		t.Fatalf("expected driver version 0.1.0; got %d.%d.%d", major, minor, patch)
	}

	if w, h := drv.Dimensions(); w != 80 || h != 25 {
		t.Fatalf("expected dimensions 80x25; got %dx%d", w, h)
	}

	if drv.Pages() != 8 || drv.PageSize() != 2000 {
		t.Fatalf("expected 8 pages of 2000 cells; got %d pages of %d cells", drv.Pages(), drv.PageSize())
	}
}

func TestVgaTextDriverInit(t *testing.T) {
	defer func() {
		mapFramebufferFn = MapFramebuffer
	}()

	t.Run("maps the text window", func(t *testing.T) {
		var writes []portWrite
		backing := make([]uint16, 8*2000)
		for i := range backing {
			backing[i] = 0xffff
		}

		var mappedAddr uintptr
		mapFramebufferFn = func(addr uintptr, words int) []uint16 {
			mappedAddr = addr
			return backing[:words]
		}

		drv := NewVgaText(80, 25, 8, TextWindowPhysAddr, func(port uint16, val uint8) {
			writes = append(writes, portWrite{port, val})
		})

		var log bytes.Buffer
		if err := drv.DriverInit(&log); err != nil {
			t.Fatal(err)
		}

		if mappedAddr != TextWindowPhysAddr {
			t.Fatalf("expected the text window at 0x%x to be mapped; got 0x%x", TextWindowPhysAddr, mappedAddr)
		}

		for i, w := range backing {
			if w != 0 {
				t.Fatalf("expected word %d to be cleared; got 0x%x", i, w)
			}
		}

		if len(writes) != 2 || writes[0] != (portWrite{0x3d4, 0x0a}) {
			t.Fatalf("expected the hardware cursor to be disabled; got writes %v", writes)
		}

		if !strings.Contains(log.String(), "mapped text window at 0xb8000") {
			t.Fatalf("expected init log to mention the mapping; got %q", log.String())
		}
	})

	t.Run("uses a supplied framebuffer", func(t *testing.T) {
		mapFramebufferFn = func(uintptr, int) []uint16 {
			t.Fatal("unexpected call to mapFramebufferFn")
			return nil
		}

		fb := make([]uint16, 2*2000)
		drv := NewVgaText(80, 25, 2, TextWindowPhysAddr, func(uint16, uint8) {})
		drv.UseFramebuffer(fb)

		if err := drv.DriverInit(&bytes.Buffer{}); err != nil {
			t.Fatal(err)
		}

		g, err := drv.Page(1)
		if err != nil {
			t.Fatal(err)
		}

		g.SetCell(0, 0, Cell{Ch: 'k', Attr: 7})
		if fb[2000] != 0x076b {
			t.Fatalf("expected page 1 to start at word 2000; got fb[2000] = 0x%x", fb[2000])
		}

		if _, err := drv.Page(2); err != errNoSuchPage {
			t.Fatalf("expected errNoSuchPage; got %v", err)
		}
	})

	t.Run("rejects pages outside the window", func(t *testing.T) {
		specs := []struct {
			drv *VgaText
			fb  []uint16
		}{
			{NewVgaText(80, 25, 9, TextWindowPhysAddr, nil), nil},
			{NewVgaText(80, 25, 2, TextWindowPhysAddr, nil), make([]uint16, 2000)},
		}

		for specIndex, spec := range specs {
			if spec.fb != nil {
				spec.drv.UseFramebuffer(spec.fb)
			}

			var err *kernel.Error
			if err = spec.drv.DriverInit(&bytes.Buffer{}); err != errWindowOverflow {
				t.Errorf("[spec %d] expected errWindowOverflow; got %v", specIndex, err)
			}
		}
	})
}

func TestVgaTextShowPage(t *testing.T) {
	var writes []portWrite
	drv := NewVgaText(80, 25, 8, TextWindowPhysAddr, func(port uint16, val uint8) {
		writes = append(writes, portWrite{port, val})
	})

	drv.ShowPage(7)

	// 7 * 2000 = 14000 = 0x36b0
	if len(writes) != 4 || writes[1].val != 0x36 || writes[3].val != 0xb0 {
		t.Fatalf("expected start address 0x36b0 to be programmed; got %v", writes)
	}
}
