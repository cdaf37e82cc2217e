package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. Subsystems use it to tag their log
// output, e.g. "[tty] ".
type PrefixWriter struct {
	// A writer where all writes get sent to.
	Sink io.Writer

	// The prefix injected at the beginning of each line.
	Prefix []byte

	midLine bool
}

// Write writes p to the sink injecting the prefix after each line break. The
// injected prefix is not included in the returned byte count.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written, lineStart int

	for i := 0; i < len(p); i++ {
		if !w.midLine {
			w.Sink.Write(w.Prefix)
			w.midLine = true
		}

		if p[i] != '\n' {
			continue
		}

		n, err := w.Sink.Write(p[lineStart : i+1])
		written += n
		if err != nil {
			return written, err
		}
		lineStart = i + 1
		w.midLine = false
	}

	if lineStart < len(p) {
		n, err := w.Sink.Write(p[lineStart:])
		written += n
		if err != nil {
			return written, err
		}
	}

	return written, nil
}
