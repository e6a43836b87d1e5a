package wire

import (
	"errors"
	"fmt"
)

var (
	ErrBadMagic       = errors.New("wire: bad magic number")
	ErrTruncated      = errors.New("wire: truncated data")
	ErrBadInteger     = errors.New("wire: bad integer token")
	ErrNegativeLength = errors.New("wire: negative length")
	ErrFieldTooLarge  = errors.New("wire: field too large")
)

// DecodeError is the only failure kind that escapes Read. It carries the
// identity of the offending source and a human-readable reason.
type DecodeError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("wire: %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("wire: %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }
