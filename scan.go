package jsonwire

import "io"

// ScanJSONValuesFromStream decodes a sequence of whitespace-separated
// top-level JSON values from in, feeding each to consumer. Scanning stops
// when consumer returns false or the stream is exhausted; a consumer stop
// is normal termination, not an error. One internal buffer is reused
// across all iterations.
func ScanJSONValuesFromStream[T any](in io.Reader, codec Codec[T], cfg *ReaderConfig, consumer func(T) bool) error {
	if in == nil {
		return ErrNilInput
	}
	if codec == nil {
		return ErrNilCodec
	}
	if cfg == nil {
		return ErrNilConfig
	}
	if consumer == nil {
		return ErrNilConsumer
	}
	r := newStreamReader(in, cfg)
	for {
		if _, ok := r.nextTokenOrEOF(); !ok {
			return r.err // nil on a clean end of the stream
		}
		r.RollbackToken()
		v := codec.Decode(r)
		if r.err != nil {
			return r.err
		}
		if !consumer(v) {
			return nil
		}
	}
}

// ScanJSONArrayFromStream decodes the elements of a single enclosing JSON
// array from in, feeding each to consumer. When consumer returns false
// the rest of the array, including its closing bracket, is left
// unconsumed.
func ScanJSONArrayFromStream[T any](in io.Reader, codec Codec[T], cfg *ReaderConfig, consumer func(T) bool) error {
	if in == nil {
		return ErrNilInput
	}
	if codec == nil {
		return ErrNilCodec
	}
	if cfg == nil {
		return ErrNilConfig
	}
	if consumer == nil {
		return ErrNilConsumer
	}
	r := newStreamReader(in, cfg)
	if b := r.NextToken(); b != '[' {
		if r.err == nil {
			r.Fail("expected '['")
		}
		return r.err
	}
	if b := r.NextToken(); b == ']' {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	r.RollbackToken()
	for {
		v := codec.Decode(r)
		if r.err != nil {
			return r.err
		}
		if !consumer(v) {
			return nil
		}
		switch b := r.NextToken(); b {
		case ',':
		case ']':
			return nil
		default:
			if r.err == nil {
				r.Fail("expected ',' or ']'")
			}
			return r.err
		}
	}
}
