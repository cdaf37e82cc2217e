package tty

import (
	"bytes"
	"kfs/device/video/console"
	"kfs/kernel/irq"
	"kfs/kernel/kfmt"
	"kfs/kernel/sync"
	"os"
	"runtime"
	gosync "sync"
	"testing"
)

func TestMain(m *testing.M) {
	irq.UseSoftwareMask()
	sync.SetYieldFn(runtime.Gosched)
	os.Exit(m.Run())
}

type portWrite struct {
	port uint16
	val  uint8
}

type portLog struct {
	mu     gosync.Mutex
	writes []portWrite
}

func (l *portLog) write(port uint16, val uint8) {
	l.mu.Lock()
	l.writes = append(l.writes, portWrite{port, val})
	l.mu.Unlock()
}

func newTestMultiplexer(t *testing.T) (*Multiplexer, *portLog) {
	t.Helper()

	ports := new(portLog)
	vga := console.NewVgaText(console.DefaultColumns, console.DefaultRows, ScreenCount, console.TextWindowPhysAddr, ports.write)
	vga.UseFramebuffer(make([]uint16, ScreenCount*vga.PageSize()))
	if err := vga.DriverInit(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	mux := NewMultiplexer(vga, DefaultHistoryRows)
	if err := mux.DriverInit(&bytes.Buffer{}); err != nil {
		t.Fatal(err)
	}

	ports.writes = nil
	return mux, ports
}

func TestMultiplexerDriverInit(t *testing.T) {
	mux, _ := newTestMultiplexer(t)

	if mux.DriverName() != "tty_mux" {
		t.Fatalf("unexpected driver name %q", mux.DriverName())
	}

	if major, minor, patch := mux.DriverVersion(); major != 0 || minor != 1 || patch != 0 {
		t.Fatalf("expected driver version 0.1.0; got %d.%d.%d", major, minor, patch)
	}

	if mux.CurrentIndex() != 0 {
		t.Fatalf("expected screen 0 to be visible; got %d", mux.CurrentIndex())
	}

	t.Run("too few pages", func(t *testing.T) {
		vga := console.NewVgaText(80, 25, 4, console.TextWindowPhysAddr, func(uint16, uint8) {})
		vga.UseFramebuffer(make([]uint16, 4*2000))

		if err := NewMultiplexer(vga, 10).DriverInit(&bytes.Buffer{}); err != errTooFewPages {
			t.Fatalf("expected errTooFewPages; got %v", err)
		}
	})

	t.Run("no display", func(t *testing.T) {
		if err := NewMultiplexer(nil, 10).DriverInit(&bytes.Buffer{}); err != errNotAttached {
			t.Fatalf("expected errNotAttached; got %v", err)
		}
	})
}

func TestSetDisplay(t *testing.T) {
	mux, ports := newTestMultiplexer(t)
	mux.Write(5, []byte("background"))

	var wg gosync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			mux.With(5, func(s *Screen) {
				if got := s.Snapshot()[0]; got != "background" {
					t.Errorf("expected screen 5 to keep its contents; got %q", got)
				}
			})
		}
	}()

	mux.SetDisplay(3)
	wg.Wait()

	if got := mux.CurrentIndex(); got != 3 {
		t.Fatalf("expected screen 3 to be visible; got %d", got)
	}

	// 3 * 2000 = 6000 = 0x1770
	exp := []portWrite{{0x3d4, 0x0c}, {0x3d5, 0x17}, {0x3d4, 0x0d}, {0x3d5, 0x70}}
	if len(ports.writes) != len(exp) {
		t.Fatalf("expected port writes %v; got %v", exp, ports.writes)
	}
	for i := range exp {
		if ports.writes[i] != exp[i] {
			t.Fatalf("expected port writes %v; got %v", exp, ports.writes)
		}
	}
}

func TestMultiplexerWrite(t *testing.T) {
	mux, _ := newTestMultiplexer(t)

	mux.SetDisplay(2)
	mux.WriteCurrent([]byte("current"))
	kfmt.Fprintf(mux.Writer(4), "screen %d\n", 4)

	mux.With(2, func(s *Screen) {
		if got := s.Snapshot()[0]; got != "current" {
			t.Fatalf("expected the visible screen to receive the text; got %q", got)
		}
	})

	mux.With(4, func(s *Screen) {
		if got := s.Snapshot()[0]; got != "screen 4" {
			t.Fatalf("expected screen 4 to receive the text; got %q", got)
		}
	})

	if !irq.Mask() {
		t.Fatal("expected interrupts to be enabled again")
	}
	irq.Restore(true)
}

func TestMultiplexerInvalidIndex(t *testing.T) {
	defer func() { panicFn = kfmt.Panic }()

	var reported []interface{}
	panicFn = func(e interface{}) { reported = append(reported, e) }

	mux, _ := newTestMultiplexer(t)

	if s, _ := mux.Acquire(ScreenCount); s != nil {
		t.Fatal("expected no screen for an out of range index")
	}

	if _, err := mux.Write(-1, []byte("x")); err != errScreenIndex {
		t.Fatalf("expected errScreenIndex; got %v", err)
	}

	mux.SetDisplay(9)
	if mux.CurrentIndex() != 0 {
		t.Fatal("expected the visible screen to stay unchanged")
	}

	if len(reported) != 3 {
		t.Fatalf("expected 3 fatal reports; got %d", len(reported))
	}
	for _, e := range reported {
		if e != errScreenIndex {
			t.Fatalf("expected errScreenIndex to be reported; got %v", e)
		}
	}
}

func TestPanicWriter(t *testing.T) {
	mux, ports := newTestMultiplexer(t)

	// The fatal path must not wait for a lock held by the code it
	// interrupted.
	mux.locks[DiagnosticScreen].Acquire()
	kfmt.Fprintf(mux.PanicWriter(), "fatal: %s", "boom")

	if mux.locks[DiagnosticScreen].TryToAcquire() {
		t.Fatal("expected the lock held by the interrupted code to stay held")
	}
	mux.locks[DiagnosticScreen].Release()

	mux.With(DiagnosticScreen, func(s *Screen) {
		if got := s.Snapshot()[0]; got != "fatal: boom" {
			t.Fatalf("expected the diagnostic screen to receive the report; got %q", got)
		}
	})

	if mux.CurrentIndex() != DiagnosticScreen || len(ports.writes) != 4 {
		t.Fatal("expected the diagnostic screen to be shown")
	}
}
