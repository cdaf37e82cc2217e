package main

import (
	"errors"
	"fmt"
	"io"
	"kfs/device/keyboard"
	"kfs/device/tty"
	"kfs/device/video/console"
	"kfs/kernel/irq"
	"kfs/kernel/kmain"
	"kfs/tools/internal/vgaemu"
	"kfs/tools/internal/vgarender"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
)

const statusHelp = "F1-F8 screen  C-p banner  F12 snapshot  Esc quit"

// simulator runs the console on an emulated adapter and mirrors the visible
// page onto a terminal.
type simulator struct {
	screen  tcell.Screen
	adapter *vgaemu.Adapter
	sys     *kmain.System

	snapshotDir string
	snapshots   int
}

func newSimulator(screen tcell.Screen, historyRows int, snapshotDir string) (*simulator, error) {
	adapter := vgaemu.New()
	display := console.NewVgaText(
		console.DefaultColumns,
		console.DefaultRows,
		tty.ScreenCount,
		console.TextWindowPhysAddr,
		adapter.PortWrite,
	)
	display.UseFramebuffer(adapter.Framebuffer())

	sys, err := kmain.Boot(kmain.Config{
		Display:     display,
		HistoryRows: historyRows,
	})
	if err != nil {
		return nil, err
	}

	// Boot leaves interrupts masked.
	irq.Restore(true)

	return &simulator{
		screen:      screen,
		adapter:     adapter,
		sys:         sys,
		snapshotDir: snapshotDir,
	}, nil
}

// translateKey maps a terminal key to the event the keyboard decoder would
// have produced for the equivalent scancodes.
func translateKey(key tcell.Key, r rune) (keyboard.Event, bool) {
	if key >= tcell.KeyF1 && key <= tcell.KeyF8 {
		return keyboard.Event{Kind: keyboard.EventSwitch, Screen: int(key - tcell.KeyF1)}, true
	}

	var b byte
	switch key {
	case tcell.KeyCtrlP:
		return keyboard.Event{Kind: keyboard.EventBanner}, true
	case tcell.KeyRune:
		if r < 0x20 || r > 0x7e {
			return keyboard.Event{}, false
		}
		b = byte(r)
	case tcell.KeyEnter:
		b = '\n'
	case tcell.KeyTab:
		b = '\t'
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		b = tty.CtrlBackspace
	case tcell.KeyDelete:
		b = tty.CtrlDelete
	case tcell.KeyUp:
		b = tty.CtrlUp
	case tcell.KeyDown:
		b = tty.CtrlDown
	case tcell.KeyLeft:
		b = tty.CtrlLeft
	case tcell.KeyRight:
		b = tty.CtrlRight
	case tcell.KeyPgUp:
		b = tty.CtrlPageUp
	case tcell.KeyPgDn:
		b = tty.CtrlPageDown
	default:
		return keyboard.Event{}, false
	}

	return keyboard.Event{Kind: keyboard.EventByte, Byte: b}, true
}

// handleKey applies ev to the console. It returns false when the simulator
// should exit. Snapshot results are reported on the diagnostic screen.
func (s *simulator) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyF12:
		msg := "snapshot failed: "
		path, err := s.snapshot()
		if err != nil {
			msg += err.Error()
		} else {
			msg = "snapshot saved to " + path
		}
		s.sys.Mux.Write(tty.DiagnosticScreen, []byte(msg+"\n"))
		return true
	}

	if kev, ok := translateKey(ev.Key(), ev.Rune()); ok {
		s.sys.HandleEvent(kev)
	}
	return true
}

// snapshot saves the visible page as a PNG file and returns its path.
func (s *simulator) snapshot() (string, error) {
	grid, err := s.adapter.Visible(console.DefaultColumns, console.DefaultRows)
	if err != nil {
		return "", err
	}

	s.snapshots++
	path := filepath.Join(s.snapshotDir, fmt.Sprintf("consim-%03d.png", s.snapshots))
	if err := vgarender.SavePNG(path, grid); err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	return path, nil
}

// draw copies the visible page to the terminal and adds a status line below
// it.
func (s *simulator) draw() error {
	grid, err := s.adapter.Visible(console.DefaultColumns, console.DefaultRows)
	if err != nil {
		return err
	}

	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			// Empty cells keep their attribute so the cursor highlight shows.
			c := grid.Cell(row, col)
			s.screen.SetContent(col, row, console.Glyph(c.Ch), nil, cellStyle(c.Attr))
		}
	}

	status := fmt.Sprintf("screen %d/%d  ticks %d  %s", s.sys.Mux.CurrentIndex()+1, tty.ScreenCount, s.sys.Ticks(), statusHelp)
	style := tcell.StyleDefault.Reverse(true)
	for col := 0; col < grid.Width(); col++ {
		ch := ' '
		if col < len(status) {
			ch = rune(status[col])
		}
		s.screen.SetContent(col, grid.Height(), ch, nil, style)
	}

	s.screen.Show()
	return nil
}

func cellStyle(attr console.Attribute) tcell.Style {
	fg, bg := attr.Fg().RGB(), attr.Bg().RGB()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
}

// pump copies everything read from r into w, calling notify after each
// chunk. It returns nil once r is exhausted.
func pump(r io.Reader, w io.Writer, notify func()) error {
	buf := make([]byte, 256)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return werr
			}
			notify()
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// runTimer calls tick every period until done is closed.
func runTimer(period time.Duration, done <-chan struct{}, tick func()) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			tick()
		}
	}
}
