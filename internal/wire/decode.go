package wire

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Magic identifies a run file. It is followed on the wire by one delimiter
// byte before the structural payload begins.
const Magic = "RUNCOV-1"

const delimiter = ' '

// MaxFieldLen bounds a single declared string or blob length. A length
// beyond it cannot come from well-formed instrumentation output and is
// rejected before any allocation happens.
const MaxFieldLen = 64 << 20

// Reader is a byte source for decoders. The scratch buffer is reused across
// fields; each Reader must be owned by a single decoding call chain.
type Reader struct {
	src     *bufio.Reader
	scratch []byte
}

// NewReader wraps src for decoding.
func NewReader(src io.Reader) *Reader {
	return &Reader{src: bufio.NewReader(src)}
}

// Decoder reads one value of type T from a live byte source.
type Decoder[T any] func(*Reader) (T, error)

// Int decodes an ASCII-decimal integer terminated by a delimiter byte.
// End of input is tolerated in place of the delimiter at the very end of
// the field.
func Int(r *Reader) (int64, error) {
	r.scratch = r.scratch[:0]
	for {
		b, err := r.src.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if b == delimiter {
			break
		}
		r.scratch = append(r.scratch, b)
	}
	n, err := strconv.ParseInt(string(r.scratch), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadInteger, string(r.scratch))
	}
	return n, nil
}

// String decodes a length-prefixed string: an Int byte count, the raw
// bytes, and one junk byte that is discarded regardless of its value.
func String(r *Reader) (string, error) {
	buf, err := r.lengthPrefixed()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// Bytes decodes the same wire shape as String into an owned byte slice.
func Bytes(r *Reader) ([]byte, error) {
	buf, err := r.lengthPrefixed()
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

// lengthPrefixed returns a view into the scratch buffer; callers must copy
// before the next decode touches the Reader.
func (r *Reader) lengthPrefixed() ([]byte, error) {
	n, err := Int(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: string length %d", ErrNegativeLength, n)
	}
	if n > MaxFieldLen {
		return nil, fmt.Errorf("%w: declared length %d", ErrFieldTooLarge, n)
	}
	if int64(cap(r.scratch)) < n {
		r.scratch = make([]byte, n)
	}
	buf := r.scratch[:n]
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, ErrTruncated
	}
	// Junk byte after the raw bytes. End of input counts as the junk byte.
	if _, err := r.src.ReadByte(); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf, nil
}

// Pair is the decoded form of two consecutive fields.
type Pair[A, B any] struct {
	First  A
	Second B
}

// PairOf decodes A then B from the same stream, in that order.
func PairOf[A, B any](da Decoder[A], db Decoder[B]) Decoder[Pair[A, B]] {
	return func(r *Reader) (Pair[A, B], error) {
		a, err := da(r)
		if err != nil {
			return Pair[A, B]{}, err
		}
		b, err := db(r)
		if err != nil {
			return Pair[A, B]{}, err
		}
		return Pair[A, B]{First: a, Second: b}, nil
	}
}

// Array decodes an Int element count followed by that many elements.
func Array[T any](elem Decoder[T]) Decoder[[]T] {
	return func(r *Reader) ([]T, error) {
		n, err := Int(r)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: array length %d", ErrNegativeLength, n)
		}
		out := make([]T, 0)
		for i := int64(0); i < n; i++ {
			v, err := elem(r)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// Read opens path, validates the magic preamble, and runs dec against the
// remaining stream. The file is closed on every exit path. Any failure
// inside dec is rewrapped into *DecodeError; an open failure is returned
// as a plain IO error so callers can tell the two kinds apart.
func Read[T any](path string, dec Decoder[T]) (T, error) {
	var zero T
	f, err := os.Open(path)
	if err != nil {
		return zero, fmt.Errorf("wire: open run file: %w", err)
	}
	defer f.Close()
	return ReadStream(path, f, dec)
}

// ReadStream is Read against an already-open source identified by name.
func ReadStream[T any](name string, src io.Reader, dec Decoder[T]) (T, error) {
	var zero T
	r := NewReader(src)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r.src, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return zero, &DecodeError{
				Path:   name,
				Reason: "unexpected end of file while reading magic number",
				Err:    ErrTruncated,
			}
		}
		return zero, &DecodeError{Path: name, Reason: "cannot read magic number", Err: err}
	}
	if string(magic) != Magic {
		return zero, &DecodeError{Path: name, Reason: "bad magic number", Err: ErrBadMagic}
	}
	if _, err := r.src.ReadByte(); err != nil && !errors.Is(err, io.EOF) {
		return zero, &DecodeError{Path: name, Reason: "malformed run data", Err: err}
	}

	v, err := dec(r)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			return zero, de
		}
		return zero, &DecodeError{Path: name, Reason: "malformed run data", Err: err}
	}
	return v, nil
}
