package wire

import (
	"bufio"
	"io"
	"strconv"
)

// Writer emits the run-file wire format. It is the inverse of the decoders
// and exists for fixture generation and round-trip tests.
type Writer struct {
	w *bufio.Writer
}

// NewWriter wraps w for encoding.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Magic writes the magic preamble and its trailing delimiter.
func (w *Writer) Magic() error {
	if _, err := w.w.WriteString(Magic); err != nil {
		return err
	}
	return w.w.WriteByte(delimiter)
}

// Int writes n as ASCII decimal followed by the delimiter.
func (w *Writer) Int(n int64) error {
	if _, err := w.w.WriteString(strconv.FormatInt(n, 10)); err != nil {
		return err
	}
	return w.w.WriteByte(delimiter)
}

// Bytes writes a length-prefixed byte string with its junk byte.
func (w *Writer) Bytes(b []byte) error {
	if err := w.Int(int64(len(b))); err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte(delimiter)
}

// String writes s as a length-prefixed string with its junk byte.
func (w *Writer) String(s string) error {
	return w.Bytes([]byte(s))
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
