package wire

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"
)

func TestIntDecodesDecimalToken(t *testing.T) {
	r := NewReader(strings.NewReader("42 7 -3 "))
	for _, want := range []int64{42, 7, -3} {
		got, err := Int(r)
		if err != nil {
			t.Fatalf("decode int: %v", err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestIntToleratesEOFAsDelimiter(t *testing.T) {
	r := NewReader(strings.NewReader("42"))
	got, err := Int(r)
	if err != nil {
		t.Fatalf("decode int: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestIntRejectsBadToken(t *testing.T) {
	r := NewReader(strings.NewReader("4x2 "))
	_, err := Int(r)
	if !errors.Is(err, ErrBadInteger) {
		t.Fatalf("expected ErrBadInteger, got %v", err)
	}
}

func TestIntRejectsEmptyToken(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := Int(r)
	if !errors.Is(err, ErrBadInteger) {
		t.Fatalf("expected ErrBadInteger, got %v", err)
	}
}

func TestStringDecodesLengthPrefixedBytes(t *testing.T) {
	// "5 hello?" -> length 5, raw bytes, one junk byte of any value.
	r := NewReader(strings.NewReader("5 hello?3 abc "))
	got, err := String(r)
	if err != nil {
		t.Fatalf("decode string: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	got, err = String(r)
	if err != nil {
		t.Fatalf("decode string: %v", err)
	}
	if got != "abc" {
		t.Fatalf("got %q, want %q", got, "abc")
	}
}

func TestStringTruncatedValueIsDeterministic(t *testing.T) {
	r := NewReader(strings.NewReader("9 abc"))
	_, err := String(r)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestStringRejectsAbsurdDeclaredLength(t *testing.T) {
	// Length field far beyond any real run file; must fail before any
	// allocation is attempted.
	r := NewReader(strings.NewReader("4611686018427387904 x"))
	_, err := String(r)
	if !errors.Is(err, ErrFieldTooLarge) {
		t.Fatalf("expected ErrFieldTooLarge, got %v", err)
	}
}

func TestStringRejectsLengthJustOverLimit(t *testing.T) {
	r := NewReader(strings.NewReader(strconv.FormatInt(MaxFieldLen+1, 10) + " x"))
	_, err := String(r)
	if !errors.Is(err, ErrFieldTooLarge) {
		t.Fatalf("expected ErrFieldTooLarge, got %v", err)
	}
}

func TestBytesReturnsOwnedSlice(t *testing.T) {
	r := NewReader(strings.NewReader("2 ab 2 cd "))
	first, err := Bytes(r)
	if err != nil {
		t.Fatalf("decode bytes: %v", err)
	}
	if _, err := Bytes(r); err != nil {
		t.Fatalf("decode bytes: %v", err)
	}
	if !bytes.Equal(first, []byte("ab")) {
		t.Fatalf("first slice clobbered by scratch reuse: %q", first)
	}
}

func TestArrayDecodesCountedElements(t *testing.T) {
	r := NewReader(strings.NewReader("3 1 0 1 "))
	got, err := Array(Int)(r)
	if err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != 1 {
		t.Fatalf("unexpected array: %v", got)
	}
}

func TestArrayEmptyIsValid(t *testing.T) {
	r := NewReader(strings.NewReader("0 "))
	got, err := Array(Int)(r)
	if err != nil {
		t.Fatalf("decode array: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty array, got %v", got)
	}
}

func TestPairOfDecodesInOrder(t *testing.T) {
	r := NewReader(strings.NewReader("4 a.ml?2 1 2 "))
	dec := PairOf(String, Array(Int))
	got, err := dec(r)
	if err != nil {
		t.Fatalf("decode pair: %v", err)
	}
	if got.First != "a.ml" || len(got.Second) != 2 || got.Second[1] != 2 {
		t.Fatalf("unexpected pair: %+v", got)
	}
}

func TestReadStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Magic(); err != nil {
		t.Fatalf("write magic: %v", err)
	}
	if err := w.Int(2); err != nil {
		t.Fatalf("write count: %v", err)
	}
	for _, s := range []string{"a.ml", "b.ml"} {
		if err := w.String(s); err != nil {
			t.Fatalf("write string: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	got, err := ReadStream("mem", &buf, Array(String))
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if len(got) != 2 || got[0] != "a.ml" || got[1] != "b.ml" {
		t.Fatalf("unexpected strings: %v", got)
	}
}

func TestReadStreamBadMagic(t *testing.T) {
	_, err := ReadStream("bad.runcov", strings.NewReader("NOTMAGIC 0 "), Array(Int))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Path != "bad.runcov" {
		t.Fatalf("wrong path in error: %q", de.Path)
	}
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected ErrBadMagic, got %v", err)
	}
}

func TestReadStreamTruncatedMagic(t *testing.T) {
	_, err := ReadStream("short.runcov", strings.NewReader("RUN"), Array(Int))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Reason != "unexpected end of file while reading magic number" {
		t.Fatalf("wrong reason: %q", de.Reason)
	}
}

func TestReadStreamWrapsStructuralFailures(t *testing.T) {
	// Valid magic, then a string field cut off mid-value.
	_, err := ReadStream("cut.runcov", strings.NewReader(Magic+" 9 ab"), String)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Path != "cut.runcov" {
		t.Fatalf("wrong path in error: %q", de.Path)
	}
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected wrapped ErrTruncated, got %v", err)
	}
}

func TestReadStreamHugeLengthIsDecodeError(t *testing.T) {
	_, err := ReadStream("huge.runcov", strings.NewReader(Magic+" 4611686018427387904 x"), String)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Path != "huge.runcov" {
		t.Fatalf("wrong path in error: %q", de.Path)
	}
	if !errors.Is(err, ErrFieldTooLarge) {
		t.Fatalf("expected wrapped ErrFieldTooLarge, got %v", err)
	}
}

func TestReadStreamMagicReadFailureNamesCause(t *testing.T) {
	boom := errors.New("read failed")
	_, err := ReadStream("io.runcov", iotest.ErrReader(boom), Array(Int))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Reason == "unexpected end of file while reading magic number" {
		t.Fatalf("non-EOF read error misreported as truncation: %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("underlying cause lost: %v", err)
	}
}

func TestReadMissingFileIsIOError(t *testing.T) {
	_, err := Read("does-not-exist.runcov", Array(Int))
	if err == nil {
		t.Fatal("expected error")
	}
	var de *DecodeError
	if errors.As(err, &de) {
		t.Fatalf("open failure must not be a DecodeError: %v", err)
	}
}
