// Package hal initializes the kernel's device drivers and keeps track of the
// ones that came up.
package hal

import (
	"bytes"
	"kfs/device"
	"kfs/kernel"
	"kfs/kernel/kfmt"
)

var (
	activeDrivers []device.Driver
	strBuf        bytes.Buffer
)

// outputWriter sends its input to the kfmt output sink, which buffers it
// until a console is attached.
type outputWriter struct{}

func (outputWriter) Write(p []byte) (int, error) {
	kfmt.Printf("%s", p)
	return len(p), nil
}

// ActiveDrivers returns the drivers initialized so far.
func ActiveDrivers() []device.Driver {
	return activeDrivers
}

// InitDrivers runs DriverInit for each driver in order. Each driver's log
// output is prefixed with its name and version. InitDrivers stops at the
// first driver that fails and returns its error.
func InitDrivers(drivers ...device.Driver) *kernel.Error {
	var w = kfmt.PrefixWriter{Sink: outputWriter{}}

	for _, drv := range drivers {
		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		w.Prefix = strBuf.Bytes()

		if err := drv.DriverInit(&w); err != nil {
			kfmt.Fprintf(&w, "init failed: %s\n", err.Message)
			return err
		}

		kfmt.Fprintf(&w, "initialized\n")
		activeDrivers = append(activeDrivers, drv)
	}

	return nil
}
