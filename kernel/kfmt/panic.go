package kfmt

import (
	"io"
	"kfs/kernel"
	"kfs/kernel/cpu"
)

var (
	// cpuHaltFn is mocked by tests.
	cpuHaltFn = cpu.Halt

	// panicSink receives the output of Panic. If nil, the output goes to
	// the regular output sink.
	panicSink io.Writer

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// SetPanicSink selects the writer that Panic reports to. The console points
// it at its reserved diagnostic screen.
func SetPanicSink(w io.Writer) {
	panicSink = w
}

// Panic reports the supplied error (if not nil) and halts the CPU. Calls to
// Panic never return on real hardware. The kernel image is patched so that
// calls to panic() land here as well.
//
//go:redirect-from runtime.gopanic
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	w := panicSink
	if w == nil {
		w = outputSink
	}

	Fprintf(w, "\n-----------------------------------\n")
	if err != nil {
		Fprintf(w, "[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Fprintf(w, "*** kernel panic: system halted ***")
	Fprintf(w, "\n-----------------------------------\n")

	cpuHaltFn()
}
