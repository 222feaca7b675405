package yrpl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/maxsupermanhd/yrpl-inspector/danet"
)

var (
	ErrOutOfBounds           = danet.ErrOutOfBounds
	ErrTruncatedHeader       = errors.New("truncated header")
	ErrTruncatedPayload      = errors.New("truncated payload")
	ErrTruncatedPacket       = errors.New("truncated packet")
	ErrInvalidEncoding       = errors.New("invalid encoding")
	ErrDecompressionFailed   = errors.New("decompression failed")
	ErrSectionNotFound       = errors.New("section not found")
	ErrSectionLengthOverflow = errors.New("section length overflow")
	ErrUnknownDialect        = errors.New("unknown dialect")
)

// DecodeError carries where a dialect assumption broke. Want and Have are
// byte counts, -1 when not applicable.
type DecodeError struct {
	Kind   error
	Op     string
	Offset int
	Want   int
	Have   int
	Err    error
}

func newDecodeError(kind error, op string, offset, want, have int, cause error) *DecodeError {
	return &DecodeError{
		Kind:   kind,
		Op:     op,
		Offset: offset,
		Want:   want,
		Have:   have,
		Err:    cause,
	}
}

func (e *DecodeError) Error() string {
	sb := strings.Builder{}
	sb.WriteString(e.Op)
	sb.WriteString(": ")
	sb.WriteString(e.Kind.Error())
	if e.Offset >= 0 {
		fmt.Fprintf(&sb, " at offset %d", e.Offset)
	}
	if e.Want >= 0 {
		fmt.Fprintf(&sb, " (want %d bytes, have %d)", e.Want, e.Have)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
