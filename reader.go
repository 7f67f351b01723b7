package jsonwire

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/rawbytedev/jsonwire/internal/hexfmt"
)

// Reader is the cursor a Codec decodes from. One Reader serves all three
// input backings: a borrowed full array, a borrowed sub-array and a
// pull-based stream refilled into an owned buffer. It is created by an
// entry point, owned by that single call and never shared.
//
// Errors are sticky: the first failure is recorded and every later
// primitive becomes a no-op returning a zero value, so codecs can chain
// reads without checking after each one.
type Reader struct {
	buf  []byte
	head int // position: next byte to consume
	tail int // limit: exclusive bound of valid bytes
	mark int // saved position for Rollback, -1 when unset
	in   io.Reader
	base int64 // logical offset of buf[0]
	eof  bool
	err  error

	appendHexDump bool
	hexDumpSize   int
}

func newStreamReader(in io.Reader, cfg *ReaderConfig) *Reader {
	return &Reader{
		buf:           make([]byte, cfg.preferredBufSize),
		mark:          -1,
		in:            in,
		appendHexDump: cfg.appendHexDumpToParseError,
		hexDumpSize:   cfg.hexDumpSize,
	}
}

// newArrayReader borrows the caller's bytes without copying; the cursor
// bounds are exactly [from, to).
func newArrayReader(buf []byte, from, to int, cfg *ReaderConfig) *Reader {
	return &Reader{
		buf:           buf,
		head:          from,
		tail:          to,
		mark:          -1,
		appendHexDump: cfg.appendHexDumpToParseError,
		hexDumpSize:   cfg.hexDumpSize,
	}
}

// Err returns the first error recorded on the Reader, if any.
func (r *Reader) Err() error { return r.err }

// Offset returns the logical byte offset of the current position.
func (r *Reader) Offset() int64 { return r.base + int64(r.head) }

// Fail records a parse error attributed to the most recently consumed
// byte. It is the reporting channel for codec-level rejections, e.g.
// r.Fail("expected '{'") after an unexpected NextToken result.
func (r *Reader) Fail(msg string) {
	pos := r.head
	if pos > 0 {
		pos--
	}
	r.failAt(msg, pos)
}

func (r *Reader) failAt(msg string, pos int) {
	if r.err != nil {
		return
	}
	pe := &ParseError{Msg: msg, Offset: r.base + int64(pos)}
	if r.appendHexDump {
		pe.Dump = hexfmt.Table(r.buf[:r.tail], r.base, pe.Offset, r.hexDumpSize)
	}
	r.err = pe
}

func (r *Reader) failEOF() {
	r.failAt("unexpected end of input", r.head)
}

// loadMore refills the buffer from the underlying stream. Consumed bytes
// are compacted out of the way when the buffer is full, unless a mark pins
// them; a single token larger than the whole buffer forces growth.
// The underlying stream is never closed here; its lifecycle belongs to the
// caller.
func (r *Reader) loadMore() bool {
	if r.in == nil || r.eof || r.err != nil {
		return false
	}
	if r.tail == len(r.buf) {
		switch {
		case r.mark < 0 && r.head > 0:
			n := copy(r.buf, r.buf[r.head:r.tail])
			r.base += int64(r.head)
			r.head = 0
			r.tail = n
		case r.mark > 0:
			n := copy(r.buf, r.buf[r.mark:r.tail])
			r.base += int64(r.mark)
			r.head -= r.mark
			r.mark = 0
			r.tail = n
		default:
			grown := make([]byte, 2*len(r.buf))
			copy(grown, r.buf[:r.tail])
			r.buf = grown
		}
	}
	for {
		n, err := r.in.Read(r.buf[r.tail:])
		r.tail += n
		if err == io.EOF {
			r.eof = true
			return n > 0
		}
		if err != nil {
			r.err = errors.Wrap(err, "jsonwire: read from stream")
			return false
		}
		if n > 0 {
			return true
		}
	}
}

func (r *Reader) readByte() (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	if r.head == r.tail && !r.loadMore() {
		return 0, false
	}
	b := r.buf[r.head]
	r.head++
	return b, true
}

func (r *Reader) peekByte() (byte, bool) {
	if r.err != nil {
		return 0, false
	}
	if r.head == r.tail && !r.loadMore() {
		return 0, false
	}
	return r.buf[r.head], true
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// NextToken skips insignificant whitespace and consumes the next byte.
// At end of input it records "unexpected end of input" and returns 0.
func (r *Reader) NextToken() byte {
	b, ok := r.nextTokenOrEOF()
	if !ok {
		if r.err == nil {
			r.failEOF()
		}
		return 0
	}
	return b
}

// nextTokenOrEOF is NextToken without the end-of-input error; the scanner
// uses it to detect a clean end of a value stream.
func (r *Reader) nextTokenOrEOF() (byte, bool) {
	for {
		b, ok := r.readByte()
		if !ok {
			return 0, false
		}
		if !isWhitespace(b) {
			return b, true
		}
	}
}

// RollbackToken puts back the byte consumed by the last NextToken. Valid
// only immediately after NextToken, before any other read.
func (r *Reader) RollbackToken() {
	if r.err != nil {
		return
	}
	if r.head > 0 {
		r.head--
	}
}

// Mark saves the current position. Until Unmark or Rollback the marked
// bytes are kept in the buffer across refills.
func (r *Reader) Mark() { r.mark = r.head }

// Rollback moves the position back to the mark and releases it.
func (r *Reader) Rollback() {
	if r.mark >= 0 {
		r.head = r.mark
	}
	r.mark = -1
}

// Unmark releases the mark without moving.
func (r *Reader) Unmark() { r.mark = -1 }

// expectLiteral consumes the given bytes or fails with msg at the first
// mismatch.
func (r *Reader) expectLiteral(lit string, msg string) bool {
	for i := 0; i < len(lit); i++ {
		b, ok := r.readByte()
		if !ok {
			if r.err == nil {
				r.failEOF()
			}
			return false
		}
		if b != lit[i] {
			r.Fail(msg)
			return false
		}
	}
	return true
}

// ReadNull consumes the literal null.
func (r *Reader) ReadNull() {
	if b := r.NextToken(); b != 'n' {
		if r.err == nil {
			r.Fail("expected 'null'")
		}
		return
	}
	r.expectLiteral("ull", "expected 'null'")
}

// ReadBool consumes true or false.
func (r *Reader) ReadBool() bool {
	switch b := r.NextToken(); b {
	case 't':
		return r.expectLiteral("rue", "expected 'true' or 'false'")
	case 'f':
		r.expectLiteral("alse", "expected 'true' or 'false'")
		return false
	default:
		if r.err == nil {
			r.Fail("expected 'true' or 'false'")
		}
		return false
	}
}

// ReadString consumes a JSON string. The fast path covers strings without
// escapes that sit fully inside the buffered window.
func (r *Reader) ReadString() string {
	if b := r.NextToken(); b != '"' {
		if r.err == nil {
			r.Fail("expected '\"'")
		}
		return ""
	}
	for i := r.head; i < r.tail; i++ {
		c := r.buf[i]
		if c == '\\' || c < 0x20 {
			break
		}
		if c == '"' {
			s := string(r.buf[r.head:i])
			r.head = i + 1
			return s
		}
	}
	return r.readStringSlow()
}

func (r *Reader) readStringSlow() string {
	var sb []byte
	for {
		b, ok := r.readByte()
		if !ok {
			if r.err == nil {
				r.failEOF()
			}
			return ""
		}
		switch {
		case b == '"':
			return string(sb)
		case b == '\\':
			sb = r.readEscape(sb)
			if r.err != nil {
				return ""
			}
		case b < 0x20:
			r.Fail("illegal control character in string")
			return ""
		default:
			sb = append(sb, b)
		}
	}
}

func (r *Reader) readEscape(sb []byte) []byte {
	b, ok := r.readByte()
	if !ok {
		if r.err == nil {
			r.failEOF()
		}
		return sb
	}
	switch b {
	case '"', '\\', '/':
		return append(sb, b)
	case 'b':
		return append(sb, '\b')
	case 'f':
		return append(sb, '\f')
	case 'n':
		return append(sb, '\n')
	case 'r':
		return append(sb, '\r')
	case 't':
		return append(sb, '\t')
	case 'u':
		hi := r.readHex4()
		if r.err != nil {
			return sb
		}
		if hi < 0xD800 || hi > 0xDFFF {
			return utf8.AppendRune(sb, hi)
		}
		if hi > 0xDBFF {
			r.Fail("illegal surrogate character")
			return sb
		}
		if !r.expectLiteral("\\u", "expected low surrogate character") {
			return sb
		}
		lo := r.readHex4()
		if r.err != nil {
			return sb
		}
		if lo < 0xDC00 || lo > 0xDFFF {
			r.Fail("illegal surrogate character")
			return sb
		}
		return utf8.AppendRune(sb, 0x10000+(hi-0xD800)<<10+(lo-0xDC00))
	default:
		r.Fail("illegal escape sequence")
		return sb
	}
}

func (r *Reader) readHex4() rune {
	var v rune
	for i := 0; i < 4; i++ {
		b, ok := r.readByte()
		if !ok {
			if r.err == nil {
				r.failEOF()
			}
			return 0
		}
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v |= rune(b - '0')
		case b >= 'a' && b <= 'f':
			v |= rune(b - 'a' + 10)
		case b >= 'A' && b <= 'F':
			v |= rune(b - 'A' + 10)
		default:
			r.Fail("expected hex digit")
			return 0
		}
	}
	return v
}

// readUintDigits accumulates decimal digits starting with first into a
// uint64 bounded by cutoff.
func (r *Reader) readUintDigits(first byte, cutoff uint64, overflowMsg string) uint64 {
	v := uint64(first - '0')
	if first == '0' {
		if d, ok := r.peekByte(); ok && d >= '0' && d <= '9' {
			r.failAt("illegal number with leading zero", r.head)
		}
		return 0
	}
	for {
		d, ok := r.peekByte()
		if !ok || d < '0' || d > '9' {
			return v
		}
		if v > cutoff/10 || (v == cutoff/10 && uint64(d-'0') > cutoff%10) {
			r.failAt(overflowMsg, r.head)
			return 0
		}
		v = v*10 + uint64(d-'0')
		r.head++
	}
}

// rejectNumberTail fails when a fraction or exponent follows an integer
// read.
func (r *Reader) rejectNumberTail() {
	if d, ok := r.peekByte(); ok && (d == '.' || d == 'e' || d == 'E') {
		r.failAt("illegal number", r.head)
	}
}

// ReadInt64 consumes a JSON integer. Fractions and exponents are rejected.
func (r *Reader) ReadInt64() int64 {
	b := r.NextToken()
	if r.err != nil {
		return 0
	}
	neg := false
	if b == '-' {
		neg = true
		var ok bool
		b, ok = r.readByte()
		if !ok {
			if r.err == nil {
				r.failEOF()
			}
			return 0
		}
	}
	if b < '0' || b > '9' {
		r.Fail("expected digit")
		return 0
	}
	cutoff := uint64(math.MaxInt64)
	if neg {
		cutoff++
	}
	v := r.readUintDigits(b, cutoff, "value is too large for int64")
	r.rejectNumberTail()
	if r.err != nil {
		return 0
	}
	if neg {
		return -int64(v)
	}
	return int64(v)
}

// ReadInt consumes a JSON integer fitting the platform int.
func (r *Reader) ReadInt() int {
	v := r.ReadInt64()
	if r.err == nil && (v < math.MinInt || v > math.MaxInt) {
		r.Fail("value is too large for int")
		return 0
	}
	return int(v)
}

// ReadUint64 consumes a non-negative JSON integer.
func (r *Reader) ReadUint64() uint64 {
	b := r.NextToken()
	if r.err != nil {
		return 0
	}
	if b < '0' || b > '9' {
		r.Fail("expected digit")
		return 0
	}
	v := r.readUintDigits(b, math.MaxUint64, "value is too large for uint64")
	r.rejectNumberTail()
	if r.err != nil {
		return 0
	}
	return v
}

// readNumberLiteral appends one syntactically valid JSON number to dst,
// leaving the position just past its last byte.
func (r *Reader) readNumberLiteral(dst []byte) []byte {
	b := r.NextToken()
	if r.err != nil {
		return nil
	}
	if b == '-' {
		dst = append(dst, '-')
		var ok bool
		b, ok = r.readByte()
		if !ok {
			if r.err == nil {
				r.failEOF()
			}
			return nil
		}
	}
	if b < '0' || b > '9' {
		r.Fail("expected digit")
		return nil
	}
	dst = append(dst, b)
	if b == '0' {
		if d, ok := r.peekByte(); ok && d >= '0' && d <= '9' {
			r.failAt("illegal number with leading zero", r.head)
			return nil
		}
	} else {
		dst = r.appendDigits(dst)
	}
	if d, ok := r.peekByte(); ok && d == '.' {
		r.head++
		dst = append(dst, '.')
		dst = r.requireDigits(dst)
		if r.err != nil {
			return nil
		}
	}
	if d, ok := r.peekByte(); ok && (d == 'e' || d == 'E') {
		r.head++
		dst = append(dst, d)
		if s, ok := r.peekByte(); ok && (s == '+' || s == '-') {
			r.head++
			dst = append(dst, s)
		}
		dst = r.requireDigits(dst)
		if r.err != nil {
			return nil
		}
	}
	return dst
}

func (r *Reader) appendDigits(dst []byte) []byte {
	for {
		d, ok := r.peekByte()
		if !ok || d < '0' || d > '9' {
			return dst
		}
		dst = append(dst, d)
		r.head++
	}
}

func (r *Reader) requireDigits(dst []byte) []byte {
	d, ok := r.peekByte()
	if !ok || d < '0' || d > '9' {
		if r.err == nil {
			r.failAt("expected digit", r.head)
		}
		return dst
	}
	return r.appendDigits(dst)
}

// ReadFloat64 consumes a JSON number. Values beyond float64 range saturate
// to ±Inf the way strconv does.
func (r *Reader) ReadFloat64() float64 {
	var scratch [32]byte
	lit := r.readNumberLiteral(scratch[:0])
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(string(lit), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		r.Fail("illegal number")
		return 0
	}
	return f
}

// SkipValue consumes one complete JSON value of any shape without
// interpreting it.
func (r *Reader) SkipValue() {
	b := r.NextToken()
	if r.err != nil {
		return
	}
	switch {
	case b == '{':
		r.skipObject()
	case b == '[':
		r.skipArray()
	case b == '"':
		r.RollbackToken()
		r.ReadString()
	case b == 't':
		r.expectLiteral("rue", "expected 'true' or 'false'")
	case b == 'f':
		r.expectLiteral("alse", "expected 'true' or 'false'")
	case b == 'n':
		r.expectLiteral("ull", "expected 'null'")
	case b == '-' || (b >= '0' && b <= '9'):
		r.RollbackToken()
		var scratch [32]byte
		r.readNumberLiteral(scratch[:0])
	default:
		r.Fail("expected JSON value")
	}
}

func (r *Reader) skipObject() {
	if b := r.NextToken(); b == '}' {
		return
	}
	r.RollbackToken()
	for {
		r.ReadString()
		if r.err != nil {
			return
		}
		if b := r.NextToken(); b != ':' {
			if r.err == nil {
				r.Fail("expected ':'")
			}
			return
		}
		r.SkipValue()
		if r.err != nil {
			return
		}
		switch b := r.NextToken(); b {
		case ',':
		case '}':
			return
		default:
			if r.err == nil {
				r.Fail("expected ',' or '}'")
			}
			return
		}
	}
}

func (r *Reader) skipArray() {
	if b := r.NextToken(); b == ']' {
		return
	}
	r.RollbackToken()
	for {
		r.SkipValue()
		if r.err != nil {
			return
		}
		switch b := r.NextToken(); b {
		case ',':
		case ']':
			return
		default:
			if r.err == nil {
				r.Fail("expected ',' or ']'")
			}
			return
		}
	}
}
