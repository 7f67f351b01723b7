package jsonwire

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Writer is the cursor a Codec encodes to. One Writer serves all three
// output backings: an owned growable buffer, a caller-supplied fixed
// buffer with incremental bounds checking, and a push-based stream flushed
// from an owned buffer. Created by an entry point, owned by that single
// call.
//
// Errors are sticky, mirroring Reader: after the first failure every write
// becomes a no-op.
type Writer struct {
	buf       []byte
	out       io.Writer
	fixed     bool // caller-owned buffer: must never grow past cap
	indention int
	step      int
	escapeU   bool
	flushAt   int
	err       error
}

func newGrownWriter(cfg *WriterConfig) *Writer {
	return &Writer{
		buf:     make([]byte, 0, 512),
		step:    cfg.indentionStep,
		escapeU: cfg.escapeUnicode,
	}
}

// newFixedWriter writes in place into the tail of the caller's buffer.
// cap(buf) is the hard limit; exceeding it records ErrBufLengthExceeded
// before any out-of-range byte is stored.
func newFixedWriter(buf []byte, from int, cfg *WriterConfig) *Writer {
	return &Writer{
		buf:     buf[from:from:len(buf)],
		fixed:   true,
		step:    cfg.indentionStep,
		escapeU: cfg.escapeUnicode,
	}
}

func newStreamWriter(out io.Writer, cfg *WriterConfig) *Writer {
	return &Writer{
		buf:     make([]byte, 0, cfg.preferredBufSize),
		out:     out,
		step:    cfg.indentionStep,
		escapeU: cfg.escapeUnicode,
		flushAt: cfg.preferredBufSize,
	}
}

// Err returns the first error recorded on the Writer, if any.
func (w *Writer) Err() error { return w.err }

// SetError records err as the Writer's sticky error. Codecs use it to
// reject values they cannot represent.
func (w *Writer) SetError(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *Writer) flush() {
	if w.err != nil || w.out == nil || len(w.buf) == 0 {
		return
	}
	if _, err := w.out.Write(w.buf); err != nil {
		w.err = errors.Wrap(err, "jsonwire: write to stream")
		return
	}
	w.buf = w.buf[:0]
}

// room reports whether n more bytes fit; on a fixed sink it records the
// overflow instead of letting append reallocate past the caller's buffer.
func (w *Writer) room(n int) bool {
	if w.err != nil {
		return false
	}
	if w.fixed && len(w.buf)+n > cap(w.buf) {
		w.err = ErrBufLengthExceeded
		return false
	}
	return true
}

func (w *Writer) writeByte(c byte) {
	if !w.room(1) {
		return
	}
	w.buf = append(w.buf, c)
	if w.out != nil && len(w.buf) >= w.flushAt {
		w.flush()
	}
}

func (w *Writer) writeTwoBytes(c1, c2 byte) {
	if !w.room(2) {
		return
	}
	w.buf = append(w.buf, c1, c2)
	if w.out != nil && len(w.buf) >= w.flushAt {
		w.flush()
	}
}

func (w *Writer) writeStr(s string) {
	if !w.room(len(s)) {
		return
	}
	w.buf = append(w.buf, s...)
	if w.out != nil && len(w.buf) >= w.flushAt {
		w.flush()
	}
}

func (w *Writer) writeBytes(b []byte) {
	if !w.room(len(b)) {
		return
	}
	w.buf = append(w.buf, b...)
	if w.out != nil && len(w.buf) >= w.flushAt {
		w.flush()
	}
}

// writeIndention emits a newline plus the current indention minus delta
// spaces. No-op in compact mode.
func (w *Writer) writeIndention(delta int) {
	if w.indention == 0 {
		return
	}
	w.writeByte('\n')
	for i := w.indention - delta; i > 0; i-- {
		w.writeByte(' ')
	}
}

// WriteObjectStart opens an object and moves one nesting level deeper.
func (w *Writer) WriteObjectStart() {
	w.indention += w.step
	w.writeByte('{')
	w.writeIndention(0)
}

// WriteObjectField writes the member key and its colon separator.
func (w *Writer) WriteObjectField(name string) {
	w.WriteString(name)
	if w.step > 0 {
		w.writeTwoBytes(':', ' ')
	} else {
		w.writeByte(':')
	}
}

// WriteObjectEnd closes a non-empty object.
func (w *Writer) WriteObjectEnd() {
	w.writeIndention(w.step)
	w.indention -= w.step
	w.writeByte('}')
}

// WriteEmptyObject writes {} with no inner whitespace.
func (w *Writer) WriteEmptyObject() {
	w.writeTwoBytes('{', '}')
}

// WriteArrayStart opens an array and moves one nesting level deeper.
func (w *Writer) WriteArrayStart() {
	w.indention += w.step
	w.writeByte('[')
	w.writeIndention(0)
}

// WriteArrayEnd closes a non-empty array.
func (w *Writer) WriteArrayEnd() {
	w.writeIndention(w.step)
	w.indention -= w.step
	w.writeByte(']')
}

// WriteEmptyArray writes [] with no inner whitespace.
func (w *Writer) WriteEmptyArray() {
	w.writeTwoBytes('[', ']')
}

// WriteMore writes the comma between members or elements.
func (w *Writer) WriteMore() {
	w.writeByte(',')
	w.writeIndention(0)
}

// WriteNull writes the null literal.
func (w *Writer) WriteNull() {
	w.writeStr("null")
}

// WriteBool writes true or false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.writeStr("true")
	} else {
		w.writeStr("false")
	}
}

// WriteRaw writes s verbatim, assuming it is already valid JSON text.
func (w *Writer) WriteRaw(s string) {
	w.writeStr(s)
}

var hexDigits = "0123456789abcdef"

func (w *Writer) writeU4(v rune) {
	w.writeStr("\\u")
	w.writeByte(hexDigits[v>>12&0xf])
	w.writeByte(hexDigits[v>>8&0xf])
	w.writeByte(hexDigits[v>>4&0xf])
	w.writeByte(hexDigits[v&0xf])
}

// WriteString writes a quoted, escaped JSON string. The fast path copies
// runs of clean bytes in one append.
func (w *Writer) WriteString(s string) {
	w.writeByte('"')
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' && (c < 0x80 || !w.escapeU) {
			i++
			continue
		}
		w.writeStr(s[start:i])
		if c >= 0x80 {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				w.writeU4(utf8.RuneError)
			} else if r > 0xFFFF {
				r -= 0x10000
				w.writeU4(0xD800 + r>>10)
				w.writeU4(0xDC00 + r&0x3FF)
			} else {
				w.writeU4(r)
			}
			i += size
		} else {
			switch c {
			case '"':
				w.writeTwoBytes('\\', '"')
			case '\\':
				w.writeTwoBytes('\\', '\\')
			case '\n':
				w.writeTwoBytes('\\', 'n')
			case '\r':
				w.writeTwoBytes('\\', 'r')
			case '\t':
				w.writeTwoBytes('\\', 't')
			case '\b':
				w.writeTwoBytes('\\', 'b')
			case '\f':
				w.writeTwoBytes('\\', 'f')
			default:
				w.writeU4(rune(c))
			}
			i++
		}
		start = i
	}
	w.writeStr(s[start:])
	w.writeByte('"')
}

// WriteInt writes a platform int.
func (w *Writer) WriteInt(v int) {
	w.WriteInt64(int64(v))
}

// WriteInt64 writes a signed integer.
func (w *Writer) WriteInt64(v int64) {
	var scratch [20]byte
	w.writeBytes(strconv.AppendInt(scratch[:0], v, 10))
}

// WriteUint64 writes an unsigned integer.
func (w *Writer) WriteUint64(v uint64) {
	var scratch [20]byte
	w.writeBytes(strconv.AppendUint(scratch[:0], v, 10))
}

// WriteFloat64 writes a finite number. NaN and Inf have no JSON
// representation and record ErrNonFiniteNumber.
func (w *Writer) WriteFloat64(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		w.SetError(ErrNonFiniteNumber)
		return
	}
	if v == math.Trunc(v) && v >= -1e15 && v <= 1e15 {
		w.WriteInt64(int64(v))
		return
	}
	var scratch [32]byte
	w.writeBytes(strconv.AppendFloat(scratch[:0], v, 'g', -1, 64))
}
