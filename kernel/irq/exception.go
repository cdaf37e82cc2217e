package irq

import (
	"io"
	"kfs/kernel/kfmt"
)

// ExceptionNum defines a CPU exception vector.
type ExceptionNum uint8

const (
	// Breakpoint is raised by the INT3 instruction.
	Breakpoint = ExceptionNum(3)

	// DoubleFault occurs when an exception is unhandled or when an
	// exception occurs while the CPU is trying to call an exception handler.
	DoubleFault = ExceptionNum(8)

	// GPFException is raised when a general protection fault occurs.
	GPFException = ExceptionNum(13)

	numExceptions = 32
)

// Frame describes an exception frame that is automatically pushed by the CPU
// to the stack when an exception occurs.
type Frame struct {
	RIP    uint64
	CS     uint64
	RFlags uint64
	RSP    uint64
	SS     uint64
}

// DumpTo outputs the exception frame contents to w.
func (f *Frame) DumpTo(w io.Writer) {
	kfmt.Fprintf(w, "RIP = %16x CS  = %16x\n", f.RIP, f.CS)
	kfmt.Fprintf(w, "RSP = %16x SS  = %16x\n", f.RSP, f.SS)
	kfmt.Fprintf(w, "RFL = %16x\n", f.RFlags)
}

// ExceptionHandler handles an exception. If the handler returns, execution
// resumes at the location described by the frame.
type ExceptionHandler func(ExceptionNum, *Frame)

var exceptionHandlers [numExceptions]ExceptionHandler

// HandleException registers an exception handler for the given vector.
func HandleException(num ExceptionNum, handler ExceptionHandler) {
	if num >= numExceptions {
		return
	}
	exceptionHandlers[num] = handler
}

// DispatchException invokes the handler registered for num. It returns false
// if no handler is registered; the caller is then expected to treat the
// exception as fatal.
func DispatchException(num ExceptionNum, frame *Frame) bool {
	if num >= numExceptions || exceptionHandlers[num] == nil {
		return false
	}

	exceptionHandlers[num](num, frame)
	return true
}
