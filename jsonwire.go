// Package jsonwire is a JSON codec engine: it drives caller-supplied
// codecs over a unified byte cursor that works identically for streams,
// full byte arrays and sub-ranges of byte arrays, and turns parse
// failures into offset-annotated hex-dump diagnostics.
//
// The engine owns buffer lifecycle, position tracking, refill and flush
// strategy, streaming iteration and error formatting. What a value of
// type T looks like on the wire is entirely the codec's business; see
// Codec.
package jsonwire

import "io"

// ReadFromStream decodes one value from in using codec. Bytes are pulled
// into an internal buffer on demand; the stream is left open and
// positioned just past the consumed JSON text plus whatever the last
// refill buffered.
func ReadFromStream[T any](in io.Reader, codec Codec[T], cfg *ReaderConfig) (T, error) {
	var zero T
	if in == nil {
		return zero, ErrNilInput
	}
	if codec == nil {
		return zero, ErrNilCodec
	}
	if cfg == nil {
		return zero, ErrNilConfig
	}
	r := newStreamReader(in, cfg)
	v := codec.Decode(r)
	if r.err != nil {
		return zero, r.err
	}
	return v, nil
}

// ReadFromArray decodes one value from the whole of buf without copying.
// Trailing bytes after the value are not inspected.
func ReadFromArray[T any](buf []byte, codec Codec[T], cfg *ReaderConfig) (T, error) {
	var zero T
	if buf == nil {
		return zero, ErrNilBuffer
	}
	return ReadFromSubArray(buf, 0, len(buf), codec, cfg)
}

// ReadFromSubArray decodes one value from buf[from:to] without copying.
// Reported error offsets are absolute positions within buf.
func ReadFromSubArray[T any](buf []byte, from, to int, codec Codec[T], cfg *ReaderConfig) (T, error) {
	var zero T
	if buf == nil {
		return zero, ErrNilBuffer
	}
	if codec == nil {
		return zero, ErrNilCodec
	}
	if cfg == nil {
		return zero, ErrNilConfig
	}
	if to < 0 || to > len(buf) {
		return zero, ErrBoundsTo
	}
	if from < 0 || from > to {
		return zero, ErrRangeFromTo
	}
	r := newArrayReader(buf, from, to, cfg)
	v := codec.Decode(r)
	if r.err != nil {
		return zero, r.err
	}
	return v, nil
}

// ReadFromString decodes one value from s.
func ReadFromString[T any](s string, codec Codec[T], cfg *ReaderConfig) (T, error) {
	return ReadFromArray([]byte(s), codec, cfg)
}

// WriteToStream encodes v through codec into out, buffering internally
// and flushing at buffer-size boundaries and at the end. The stream is
// never closed here.
func WriteToStream[T any](v T, out io.Writer, codec Codec[T], cfg *WriterConfig) error {
	if out == nil {
		return ErrNilOutput
	}
	if codec == nil {
		return ErrNilCodec
	}
	if cfg == nil {
		return ErrNilConfig
	}
	w := newStreamWriter(out, cfg)
	codec.Encode(w, v)
	w.flush()
	return w.err
}

// WriteToArray encodes v into a freshly allocated array sized exactly to
// the bytes written.
func WriteToArray[T any](v T, codec Codec[T], cfg *WriterConfig) ([]byte, error) {
	if codec == nil {
		return nil, ErrNilCodec
	}
	if cfg == nil {
		return nil, ErrNilConfig
	}
	w := newGrownWriter(cfg)
	codec.Encode(w, v)
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, len(w.buf))
	copy(out, w.buf)
	return out, nil
}

// WriteToString encodes v and returns the JSON text as a string.
func WriteToString[T any](v T, codec Codec[T], cfg *WriterConfig) (string, error) {
	b, err := WriteToArray(v, codec, cfg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// WriteToPreallocatedArray encodes v into buf starting at from and
// returns the exclusive end offset reached. The from bound is validated
// before any byte is written; running out of room mid-write records
// ErrBufLengthExceeded and leaves the bytes already written in place.
func WriteToPreallocatedArray[T any](v T, buf []byte, from int, codec Codec[T], cfg *WriterConfig) (int, error) {
	if buf == nil {
		return 0, ErrNilBuffer
	}
	if codec == nil {
		return 0, ErrNilCodec
	}
	if cfg == nil {
		return 0, ErrNilConfig
	}
	if from < 0 || from > len(buf) {
		return 0, ErrBoundsFrom
	}
	w := newFixedWriter(buf, from, cfg)
	codec.Encode(w, v)
	if w.err != nil {
		return 0, w.err
	}
	return from + len(w.buf), nil
}
