package jsonwire

// Codec is the caller-supplied capability pair driven by the engine: how to
// decode one value of type T from the current read position and how to
// encode one value to the current write position. The engine never inspects
// T itself; dispatch is resolved at compile time through the type parameter.
//
// A failing Decode reports through the Reader (Fail or any Read* primitive
// hitting malformed input) and returns the zero value; the engine surfaces
// the recorded error from the entry point. Encode reports through the
// Writer the same way.
type Codec[T any] interface {
	Decode(r *Reader) T
	Encode(w *Writer, v T)
}

// CodecFuncs adapts a pair of functions into a Codec.
type CodecFuncs[T any] struct {
	DecodeFunc func(r *Reader) T
	EncodeFunc func(w *Writer, v T)
}

func (c CodecFuncs[T]) Decode(r *Reader) T { return c.DecodeFunc(r) }

func (c CodecFuncs[T]) Encode(w *Writer, v T) { c.EncodeFunc(w, v) }
