// Command consim runs the kernel console on the host. The console drives an
// emulated text adapter whose visible page is mirrored onto the terminal;
// terminal keys are fed to the console the way keyboard interrupts would be.
package main

import (
	"flag"
	"kfs/device/tty"
	"kfs/kernel/irq"
	"kfs/kernel/sync"
	"log"
	"runtime"

	"github.com/gdamore/tcell/v2"
	"github.com/jacobsa/go-serial/serial"
)

var (
	historyRows = flag.Int("history", tty.DefaultHistoryRows, "scrollback rows kept by each screen")
	serialPort  = flag.String("serial", "", "serial device whose input is written to the first screen")
	baudRate    = flag.Uint("baud", 115200, "serial device baud rate")
	snapshotDir = flag.String("snapshot", ".", "directory that F12 snapshots are saved to")
	tickPeriod  = flag.Duration("tick", 0, "timer interrupt period; 0 disables the timer")
)

func main() {
	flag.Parse()
	log.SetFlags(0)
	log.SetPrefix("[consim] ")

	irq.UseSoftwareMask()
	sync.SetYieldFn(runtime.Gosched)

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("tcell.NewScreen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("screen.Init: %v", err)
	}

	if err := run(screen); err != nil {
		screen.Fini()
		log.Fatal(err)
	}
	screen.Fini()
}

func run(screen tcell.Screen) error {
	sim, err := newSimulator(screen, *historyRows, *snapshotDir)
	if err != nil {
		return err
	}

	redraw := func() { _ = screen.PostEvent(tcell.NewEventInterrupt(nil)) }

	if *serialPort != "" {
		port, err := serial.Open(serial.OpenOptions{
			PortName:        *serialPort,
			BaudRate:        *baudRate,
			DataBits:        8,
			StopBits:        1,
			MinimumReadSize: 1,
		})
		if err != nil {
			return err
		}
		defer port.Close()

		go func() {
			if err := pump(port, sim.sys.Mux.Writer(0), redraw); err != nil {
				sim.sys.Mux.Write(tty.DiagnosticScreen, []byte("serial: "+err.Error()+"\n"))
				redraw()
			}
		}()
	}

	done := make(chan struct{})
	defer close(done)

	if *tickPeriod > 0 {
		go runTimer(*tickPeriod, done, func() {
			irq.DispatchIRQ(irq.Timer)
			redraw()
		})
	}

	for {
		if err := sim.draw(); err != nil {
			return err
		}

		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if !sim.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			screen.Sync()
		case nil:
			return nil
		}
	}
}
