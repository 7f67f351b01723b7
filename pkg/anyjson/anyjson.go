// Package anyjson supplies a ready-made codec for untyped JSON values:
// objects decode to map[string]any, arrays to []any, strings to string,
// numbers to float64, booleans to bool and null to nil. It is the codec
// the examples and benchmarks run the engine with; typed applications
// supply their own.
package anyjson

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/rawbytedev/jsonwire"
)

// maxDepth bounds nesting so that hostile input cannot exhaust the stack.
const maxDepth = 128

type anyCodec struct{}

// Codec returns the untyped value codec. The returned value is stateless
// and safe for concurrent use.
func Codec() jsonwire.Codec[any] { return anyCodec{} }

func (anyCodec) Decode(r *jsonwire.Reader) any { return decodeValue(r, 0) }

func (anyCodec) Encode(w *jsonwire.Writer, v any) { encodeValue(w, v) }

func decodeValue(r *jsonwire.Reader, depth int) any {
	if depth > maxDepth {
		r.Fail("maximum nesting depth exceeded")
		return nil
	}
	b := r.NextToken()
	if r.Err() != nil {
		return nil
	}
	switch {
	case b == '{':
		return decodeObject(r, depth)
	case b == '[':
		return decodeArray(r, depth)
	case b == '"':
		r.RollbackToken()
		return r.ReadString()
	case b == 't' || b == 'f':
		r.RollbackToken()
		return r.ReadBool()
	case b == 'n':
		r.RollbackToken()
		r.ReadNull()
		return nil
	case b == '-' || (b >= '0' && b <= '9'):
		r.RollbackToken()
		return r.ReadFloat64()
	default:
		r.Fail("expected JSON value")
		return nil
	}
}

func decodeObject(r *jsonwire.Reader, depth int) map[string]any {
	obj := map[string]any{}
	if b := r.NextToken(); b == '}' {
		return obj
	}
	if r.Err() != nil {
		return nil
	}
	r.RollbackToken()
	for {
		key := r.ReadString()
		if r.Err() != nil {
			return nil
		}
		if b := r.NextToken(); b != ':' {
			if r.Err() == nil {
				r.Fail("expected ':'")
			}
			return nil
		}
		obj[key] = decodeValue(r, depth+1)
		if r.Err() != nil {
			return nil
		}
		switch b := r.NextToken(); b {
		case ',':
		case '}':
			return obj
		default:
			if r.Err() == nil {
				r.Fail("expected ',' or '}'")
			}
			return nil
		}
	}
}

func decodeArray(r *jsonwire.Reader, depth int) []any {
	arr := []any{}
	if b := r.NextToken(); b == ']' {
		return arr
	}
	if r.Err() != nil {
		return nil
	}
	r.RollbackToken()
	for {
		arr = append(arr, decodeValue(r, depth+1))
		if r.Err() != nil {
			return nil
		}
		switch b := r.NextToken(); b {
		case ',':
		case ']':
			return arr
		default:
			if r.Err() == nil {
				r.Fail("expected ',' or ']'")
			}
			return nil
		}
	}
}

func encodeValue(w *jsonwire.Writer, v any) {
	switch x := v.(type) {
	case nil:
		w.WriteNull()
	case bool:
		w.WriteBool(x)
	case string:
		w.WriteString(x)
	case float64:
		w.WriteFloat64(x)
	case float32:
		w.WriteFloat64(float64(x))
	case int:
		w.WriteInt(x)
	case int8:
		w.WriteInt64(int64(x))
	case int16:
		w.WriteInt64(int64(x))
	case int32:
		w.WriteInt64(int64(x))
	case int64:
		w.WriteInt64(x)
	case uint:
		w.WriteUint64(uint64(x))
	case uint8:
		w.WriteUint64(uint64(x))
	case uint16:
		w.WriteUint64(uint64(x))
	case uint32:
		w.WriteUint64(uint64(x))
	case uint64:
		w.WriteUint64(x)
	case map[string]any:
		encodeObject(w, x)
	case []any:
		encodeArray(w, x)
	default:
		w.SetError(errors.Errorf("anyjson: cannot encode value of type %T", v))
	}
}

// encodeObject emits keys in sorted order so that output is
// deterministic.
func encodeObject(w *jsonwire.Writer, obj map[string]any) {
	if len(obj) == 0 {
		w.WriteEmptyObject()
		return
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	w.WriteObjectStart()
	for i, k := range keys {
		if i > 0 {
			w.WriteMore()
		}
		w.WriteObjectField(k)
		encodeValue(w, obj[k])
	}
	w.WriteObjectEnd()
}

func encodeArray(w *jsonwire.Writer, arr []any) {
	if len(arr) == 0 {
		w.WriteEmptyArray()
		return
	}
	w.WriteArrayStart()
	for i, v := range arr {
		if i > 0 {
			w.WriteMore()
		}
		encodeValue(w, v)
	}
	w.WriteArrayEnd()
}
