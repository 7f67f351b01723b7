package jsonwire_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rawbytedev/jsonwire"
)

var float64Codec = jsonwire.CodecFuncs[float64]{
	DecodeFunc: func(r *jsonwire.Reader) float64 { return r.ReadFloat64() },
	EncodeFunc: func(w *jsonwire.Writer, v float64) { w.WriteFloat64(v) },
}

func parseFailure(t *testing.T, err error) *jsonwire.ParseError {
	t.Helper()
	var pe *jsonwire.ParseError
	require.ErrorAs(t, err, &pe)
	return pe
}

func TestReadInt64(t *testing.T) {
	for input, want := range map[string]int64{
		"0":                    0,
		"42":                   42,
		"-7":                   -7,
		" \t\r\n 1234 ":        1234,
		"9223372036854775807":  9223372036854775807,
		"-9223372036854775808": -9223372036854775808,
	} {
		got, err := jsonwire.ReadFromArray([]byte(input), int64Codec, jsonwire.DefaultReaderConfig)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestReadInt64Errors(t *testing.T) {
	for input, msg := range map[string]string{
		"9223372036854775808":  "value is too large for int64",
		"-9223372036854775809": "value is too large for int64",
		"01":                   "illegal number with leading zero",
		"1.5":                  "illegal number",
		"2e3":                  "illegal number",
		"abc":                  "expected digit",
		"":                     "unexpected end of input",
		"-":                    "unexpected end of input",
	} {
		_, err := jsonwire.ReadFromArray([]byte(input), int64Codec, jsonwire.DefaultReaderConfig)
		pe := parseFailure(t, err)
		assert.Equal(t, msg, pe.Msg, input)
	}
}

func TestReadFloat64(t *testing.T) {
	for input, want := range map[string]float64{
		"0":       0,
		"3.25":    3.25,
		"-2.5e3":  -2500,
		"1e2":     100,
		"1.5E-2":  0.015,
		"-0.125":  -0.125,
		"1234567": 1234567,
	} {
		got, err := jsonwire.ReadFromArray([]byte(input), float64Codec, jsonwire.DefaultReaderConfig)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"1.", "1e", "1e+", ".5", "+1", "00"} {
		_, err := jsonwire.ReadFromArray([]byte(input), float64Codec, jsonwire.DefaultReaderConfig)
		parseFailure(t, err)
	}
}

func TestReadStringEscapes(t *testing.T) {
	for input, want := range map[string]string{
		`"plain"`:                  "plain",
		`""`:                       "",
		`"a\nb\tc"`:                "a\nb\tc",
		`"quote \" backslash \\"`:  "quote \" backslash \\",
		`"slash \/ slash"`:         "slash / slash",
		`"\u0041\u00e9"`:          "Aé",
		`"\ud83d\ude00"`:          "😀",
		`"\b\f\r"`:                 "\b\f\r",
		`"unicode stays: héllo 界"`: "unicode stays: héllo 界",
	} {
		got, err := jsonwire.ReadFromArray([]byte(input), stringCodec, jsonwire.DefaultReaderConfig)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
}

func TestReadStringErrors(t *testing.T) {
	for input, msg := range map[string]string{
		"\"ctrl \x01\"":    "illegal control character in string",
		`"open`:            "unexpected end of input",
		`"bad \q escape"`:  "illegal escape sequence",
		`"bad hex \uZZZZ"`: "expected hex digit",
		`"\ud83d alone"`:   "expected low surrogate character",
		`"\ude00 first"`:   "illegal surrogate character",
		`42`:               "expected '\"'",
	} {
		_, err := jsonwire.ReadFromArray([]byte(input), stringCodec, jsonwire.DefaultReaderConfig)
		pe := parseFailure(t, err)
		assert.Equal(t, msg, pe.Msg, input)
	}
}

func TestReadBoolAndNull(t *testing.T) {
	boolCodec := jsonwire.CodecFuncs[bool]{
		DecodeFunc: func(r *jsonwire.Reader) bool { return r.ReadBool() },
		EncodeFunc: func(w *jsonwire.Writer, v bool) { w.WriteBool(v) },
	}
	got, err := jsonwire.ReadFromArray([]byte("true"), boolCodec, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	require.True(t, got)
	got, err = jsonwire.ReadFromArray([]byte(" false"), boolCodec, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	require.False(t, got)

	_, err = jsonwire.ReadFromArray([]byte("truthy"), boolCodec, jsonwire.DefaultReaderConfig)
	pe := parseFailure(t, err)
	require.Equal(t, "expected 'true' or 'false'", pe.Msg)

	nullCodec := jsonwire.CodecFuncs[any]{
		DecodeFunc: func(r *jsonwire.Reader) any { r.ReadNull(); return nil },
		EncodeFunc: func(w *jsonwire.Writer, _ any) { w.WriteNull() },
	}
	_, err = jsonwire.ReadFromArray([]byte("null"), nullCodec, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	_, err = jsonwire.ReadFromArray([]byte("nil"), nullCodec, jsonwire.DefaultReaderConfig)
	pe = parseFailure(t, err)
	require.Equal(t, "expected 'null'", pe.Msg)
}

func TestSkipValueOverUnknownFields(t *testing.T) {
	input := []byte(`{
		"meta": {"nested": [1, 2, {"deep": null}], "flag": true},
		"x": 5,
		"ignored": "string with \" escape",
		"y": 6,
		"also": [[], {}, -1.5e2],
		"label": "kept"
	}`)
	got, err := jsonwire.ReadFromArray(input, pointCodec{}, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	require.Equal(t, point{X: 5, Y: 6, Label: "kept"}, got)
}

func TestMarkAndRollback(t *testing.T) {
	twice := jsonwire.CodecFuncs[[2]int64]{
		DecodeFunc: func(r *jsonwire.Reader) [2]int64 {
			r.Mark()
			a := r.ReadInt64()
			r.Rollback()
			b := r.ReadInt64()
			return [2]int64{a, b}
		},
		EncodeFunc: func(w *jsonwire.Writer, v [2]int64) { w.WriteInt64(v[0]) },
	}
	got, err := jsonwire.ReadFromArray([]byte("1234"), twice, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	require.Equal(t, [2]int64{1234, 1234}, got)
}

// A mark set across a refill boundary must pin the marked bytes while the
// buffer compacts around them.
func TestMarkSurvivesRefill(t *testing.T) {
	doc := `{"x":1,"y":2,"label":"` + strings.Repeat("m", 100) + `"}`
	twice := jsonwire.CodecFuncs[point]{
		DecodeFunc: func(r *jsonwire.Reader) point {
			r.Mark()
			pointCodec{}.Decode(r)
			r.Rollback()
			return pointCodec{}.Decode(r)
		},
		EncodeFunc: pointCodec{}.Encode,
	}
	cfg := jsonwire.NewReaderConfig().WithPreferredBufSize(16)
	got, err := jsonwire.ReadFromStream(iotest.OneByteReader(strings.NewReader(doc)), twice, cfg)
	require.NoError(t, err)
	require.Equal(t, point{X: 1, Y: 2, Label: strings.Repeat("m", 100)}, got)
}

// A token longer than the whole buffer forces growth instead of an
// endless compaction loop.
func TestStreamRefillAndGrowth(t *testing.T) {
	label := strings.Repeat("long-", 200)
	doc := `{"x":987654321,"y":-12,"label":"` + label + `"}`
	cfg := jsonwire.NewReaderConfig().WithPreferredBufSize(16)
	got, err := jsonwire.ReadFromStream(iotest.OneByteReader(strings.NewReader(doc)), pointCodec{}, cfg)
	require.NoError(t, err)
	require.Equal(t, point{X: 987654321, Y: -12, Label: label}, got)
}

func TestStreamReadErrorIsWrapped(t *testing.T) {
	broken := iotest.ErrReader(assert.AnError)
	_, err := jsonwire.ReadFromStream(broken, pointCodec{}, jsonwire.DefaultReaderConfig)
	require.ErrorIs(t, err, assert.AnError)
	require.Contains(t, err.Error(), "read from stream")
}

func TestEmptyInputFailsAtOffsetZero(t *testing.T) {
	_, err := jsonwire.ReadFromArray([]byte{}, pointCodec{}, jsonwire.DefaultReaderConfig)
	pe := parseFailure(t, err)
	require.Equal(t, "unexpected end of input", pe.Msg)
	require.Equal(t, int64(0), pe.Offset)
}

func TestSubArrayFailureReportsAbsoluteOffset(t *testing.T) {
	buf := []byte(`#### {"x": qope}`)
	_, err := jsonwire.ReadFromSubArray(buf, 5, len(buf), pointCodec{}, jsonwire.DefaultReaderConfig)
	pe := parseFailure(t, err)
	require.Equal(t, "expected digit", pe.Msg)
	require.Equal(t, int64(bytes.IndexByte(buf, 'q')), pe.Offset)
}

func TestTrailingBytesAfterValueAreIgnored(t *testing.T) {
	got, err := jsonwire.ReadFromArray([]byte(`42 whatever follows`), int64Codec, jsonwire.DefaultReaderConfig)
	require.NoError(t, err)
	require.Equal(t, int64(42), got)
}
