package cli

import (
	"strings"

	"github.com/vislam/haloc/pkg/buffer"
)

// LogWriter is an io.Writer that captures log lines in a bounded ring
// buffer for halocctl watch's scrolling event log, so the TUI can
// render the last N lines without retaining the full run's output.
type LogWriter struct {
	buf *buffer.RingBuffer[string]
}

// NewLogWriter creates a log writer retaining at most maxLines lines.
func NewLogWriter(maxLines int) *LogWriter {
	return &LogWriter{buf: buffer.RingN[string](maxLines)}
}

// Write implements io.Writer.
// Handles multi-line input by splitting on newlines.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	text := strings.TrimRight(string(p), "\n")
	for _, line := range strings.Split(text, "\n") {
		w.buf.Add(line)
	}
	return len(p), nil
}

// Lines returns all buffered lines, oldest first.
func (w *LogWriter) Lines() []string {
	return w.buf.Bytes()
}
