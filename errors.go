package jsonwire

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNilCodec    = errors.New("codec must not be nil")
	ErrNilInput    = errors.New("input stream must not be nil")
	ErrNilOutput   = errors.New("output stream must not be nil")
	ErrNilBuffer   = errors.New("buf must not be nil")
	ErrNilConfig   = errors.New("config must not be nil")
	ErrNilConsumer = errors.New("consumer must not be nil")

	// Bounds validation for sub-array reads and preallocated writes.
	// The messages are part of the compatibility contract and must not change.
	ErrBoundsTo    = errors.New("`to` should be positive and not greater than `buf` length")
	ErrRangeFromTo = errors.New("`from` should be positive and not greater than `to`")
	ErrBoundsFrom  = errors.New("`from` should be positive and not greater than `buf` length")

	// Overflow of a caller-supplied fixed output buffer.
	ErrBufLengthExceeded = errors.New("`buf` length exceeded")

	ErrNonFiniteNumber = errors.New("illegal number: NaN and Inf have no JSON representation")
)

// ParseError reports a structural mismatch between the input bytes and the
// expected JSON grammar. Offset is the logical byte offset of the failure,
// frozen at the failure site. Dump, when present, holds the bordered
// hex+ASCII rendering of the buffer window around Offset.
//
// A ParseError is built once and never mutated afterwards.
type ParseError struct {
	Msg    string
	Offset int64
	Dump   string
}

func (e *ParseError) Error() string {
	if e.Dump == "" {
		return fmt.Sprintf("%s, offset: 0x%08x", e.Msg, e.Offset)
	}
	return fmt.Sprintf("%s, offset: 0x%08x, buf:\n%s", e.Msg, e.Offset, e.Dump)
}
