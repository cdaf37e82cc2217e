package kfmt

import (
	"bytes"
	"io"
	"testing"
)

func TestRingBuffer(t *testing.T) {
	var (
		buf    bytes.Buffer
		expStr = "the big brown fox jumped over the lazy dog"
		rb     ringBuffer
	)

	t.Run("read/write", func(t *testing.T) {
		rb = ringBuffer{}
		buf.Reset()
		rb.Write([]byte(expStr))

		if _, err := io.Copy(&buf, &rb); err != nil {
			t.Fatal(err)
		}

		if got := buf.String(); got != expStr {
			t.Fatalf("expected to read %q; got %q", expStr, got)
		}

		if n, err := rb.Read(make([]byte, 4)); n != 0 || err != io.EOF {
			t.Fatalf("expected a drained buffer to return (0, io.EOF); got (%d, %v)", n, err)
		}
	})

	t.Run("overwrite oldest bytes", func(t *testing.T) {
		rb = ringBuffer{}
		buf.Reset()

		fill := bytes.Repeat([]byte{'x'}, ringBufferSize)
		rb.Write(fill)
		rb.Write([]byte(expStr))

		if _, err := io.Copy(&buf, &rb); err != nil {
			t.Fatal(err)
		}

		got := buf.Bytes()
		if len(got) != ringBufferSize {
			t.Fatalf("expected to read %d bytes; got %d", ringBufferSize, len(got))
		}

		if !bytes.HasSuffix(got, []byte(expStr)) {
			t.Fatalf("expected the most recent bytes to be kept; got suffix %q", got[len(got)-len(expStr):])
		}
	})

	t.Run("small reads across the wrap point", func(t *testing.T) {
		rb = ringBuffer{}
		rb.Write(bytes.Repeat([]byte{'-'}, ringBufferSize-2))
		rb.Read(make([]byte, ringBufferSize-2))
		rb.Write([]byte("wrap"))

		var out []byte
		p := make([]byte, 1)
		for {
			n, err := rb.Read(p)
			if err == io.EOF {
				break
			}
			out = append(out, p[:n]...)
		}

		if string(out) != "wrap" {
			t.Fatalf("expected to read %q; got %q", "wrap", out)
		}
	})
}
