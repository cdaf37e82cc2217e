// Package kfmt implements the kernel's formatted output. The implementation
// never allocates so it can be used from interrupt handlers and before the
// console is attached.
package kfmt

import (
	"io"
	"unsafe"
)

// numBufSize is large enough for a 64-bit value in base 8 plus sign and
// padding.
const numBufSize = 32

var (
	errMissingArg   = []byte("%!(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")
	digits          = []byte("0123456789abcdef")

	numBuf     [numBufSize]byte
	singleByte = []byte{0}

	// earlyBuffer captures Printf output until SetOutputSink is called.
	earlyBuffer ringBuffer

	// outputSink receives Printf output. A nil sink sends the output to
	// earlyBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the target for calls to Printf and flushes anything
// captured by the early buffer into it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyBuffer)
	}
}

// GetOutputSink returns the current target for calls to Printf.
func GetOutputSink() io.Writer {
	return outputSink
}

// Printf formats according to a format specifier and writes to the active
// output sink. It supports the following subset of the fmt verbs:
//
//	%s  string or []byte
//	%c  a single byte
//	%d  base 10 integer, space padded
//	%x  base 16 integer (lower-case), zero padded
//	%o  base 8 integer, zero padded
//	%t  "true" or "false"
//	%%  a literal percent sign
//
// An optional decimal width may precede the verb.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves like Printf but writes to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var (
		argIndex int
		width    int
		i        int
	)

	for i < len(format) {
		if format[i] != '%' {
			writeByte(w, format[i])
			i++
			continue
		}

		width = 0
		for i++; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, errNoVerb)
			break
		}

		verb := format[i]
		i++

		if verb == '%' {
			writeByte(w, '%')
			continue
		}

		if argIndex >= len(args) {
			doWrite(w, errMissingArg)
			continue
		}

		arg := args[argIndex]
		argIndex++

		switch verb {
		case 's':
			fmtString(w, arg, width)
		case 'c':
			fmtChar(w, arg)
		case 'd':
			fmtInt(w, arg, 10, width)
		case 'x':
			fmtInt(w, arg, 16, width)
		case 'o':
			fmtInt(w, arg, 8, width)
		case 't':
			fmtBool(w, arg)
		default:
			doWrite(w, errNoVerb)
		}
	}

	for ; argIndex < len(args); argIndex++ {
		doWrite(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

func fmtChar(w io.Writer, v interface{}) {
	switch c := v.(type) {
	case byte:
		writeByte(w, c)
	case rune:
		writeByte(w, byte(c))
	default:
		doWrite(w, errWrongArgType)
	}
}

// fmtString left-pads string or []byte values with spaces up to width.
func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		fmtRepeat(w, ' ', width-len(s))
		// converting s to a []byte would allocate.
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		fmtRepeat(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes v in the requested base. Base 10 values are padded with
// spaces, base 8 and 16 values with zeroes.
func fmtInt(w io.Writer, v interface{}, base uint64, width int) {
	var (
		uval uint64
		neg  bool
		pad  byte = '0'
	)

	switch n := v.(type) {
	case uint8:
		uval = uint64(n)
	case uint16:
		uval = uint64(n)
	case uint32:
		uval = uint64(n)
	case uint64:
		uval = n
	case uint:
		uval = uint64(n)
	case uintptr:
		uval = uint64(n)
	case int8:
		uval, neg = abs(int64(n))
	case int16:
		uval, neg = abs(int64(n))
	case int32:
		uval, neg = abs(int64(n))
	case int64:
		uval, neg = abs(n)
	case int:
		uval, neg = abs(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if base == 10 {
		pad = ' '
	}
	if width > numBufSize-1 {
		width = numBufSize - 1
	}

	// Digits are generated right to left.
	pos := numBufSize
	for {
		pos--
		numBuf[pos] = digits[uval%base]
		uval /= base
		if uval == 0 {
			break
		}
	}

	switch {
	case pad == ' ':
		if neg {
			pos--
			numBuf[pos] = '-'
		}
		for numBufSize-pos < width {
			pos--
			numBuf[pos] = ' '
		}
	default:
		// Zero padding goes between the sign and the digits.
		signLen := 0
		if neg {
			signLen = 1
		}
		for numBufSize-pos+signLen < width {
			pos--
			numBuf[pos] = '0'
		}
		if neg {
			pos--
			numBuf[pos] = '-'
		}
	}

	doWrite(w, numBuf[pos:])
}

func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// doWrite hides p from escape analysis. Without it the compiler cannot tell
// that p does not escape through the io.Writer interface call and every
// Printf call would allocate.
func doWrite(w io.Writer, p []byte) {
	doRealWrite(w, noEscape(unsafe.Pointer(&p)))
}

func doRealWrite(w io.Writer, bufPtr unsafe.Pointer) {
	p := *(*[]byte)(bufPtr)
	if w != nil {
		w.Write(p)
	} else {
		earlyBuffer.Write(p)
	}
}

// noEscape hides a pointer from escape analysis (see runtime/stubs.go).
//
//go:nosplit
func noEscape(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
