package irq

import (
	"bytes"
	"testing"
)

func TestDispatchException(t *testing.T) {
	defer func() {
		exceptionHandlers = [numExceptions]ExceptionHandler{}
	}()

	frame := &Frame{RIP: 0x100000}

	if DispatchException(Breakpoint, frame) {
		t.Fatal("expected DispatchException to return false without a registered handler")
	}

	var gotNum ExceptionNum
	var gotFrame *Frame
	HandleException(Breakpoint, func(num ExceptionNum, f *Frame) {
		gotNum, gotFrame = num, f
	})
	HandleException(ExceptionNum(numExceptions), func(ExceptionNum, *Frame) {})

	if !DispatchException(Breakpoint, frame) {
		t.Fatal("expected DispatchException to return true")
	}

	if gotNum != Breakpoint || gotFrame != frame {
		t.Fatalf("expected handler to receive (%d, %p); got (%d, %p)", Breakpoint, frame, gotNum, gotFrame)
	}

	if DispatchException(ExceptionNum(numExceptions), frame) {
		t.Fatal("expected out of range exception numbers to be rejected")
	}
}

func TestFrameDumpTo(t *testing.T) {
	var buf bytes.Buffer
	frame := Frame{RIP: 0x1, CS: 0x8, RFlags: 0x202, RSP: 0x2000, SS: 0x10}
	frame.DumpTo(&buf)

	exp := "RIP = 0000000000000001 CS  = 0000000000000008\n" +
		"RSP = 0000000000002000 SS  = 0000000000000010\n" +
		"RFL = 0000000000000202\n"

	if got := buf.String(); got != exp {
		t.Fatalf("expected to get:\n%q\ngot:\n%q", exp, got)
	}
}
