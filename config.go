package jsonwire

import "fmt"

// ReaderConfig controls stream buffering and parse-failure diagnostics.
// Configs are immutable: the With* methods return modified copies, so one
// config can be shared by any number of concurrent calls.
type ReaderConfig struct {
	preferredBufSize          int
	hexDumpSize               int
	appendHexDumpToParseError bool
}

// DefaultReaderConfig is the configuration used by most callers:
// 16 KiB refill buffer, hex dumps enabled with 2 lines of context.
var DefaultReaderConfig = &ReaderConfig{
	preferredBufSize:          16384,
	hexDumpSize:               2,
	appendHexDumpToParseError: true,
}

// NewReaderConfig returns a private copy of DefaultReaderConfig.
func NewReaderConfig() *ReaderConfig {
	c := *DefaultReaderConfig
	return &c
}

// WithPreferredBufSize sets the internal buffer size for stream-backed
// reads. Panics if n < 12 (the longest atomic token prefix must fit).
func (c *ReaderConfig) WithPreferredBufSize(n int) *ReaderConfig {
	if n < 12 {
		panic(fmt.Sprintf("jsonwire: preferred buf size %d is too small", n))
	}
	d := *c
	d.preferredBufSize = n
	return &d
}

// WithHexDumpSize sets how many 16-byte lines surround the failure offset
// in parse-error dumps. Panics if n < 1.
func (c *ReaderConfig) WithHexDumpSize(n int) *ReaderConfig {
	if n < 1 {
		panic(fmt.Sprintf("jsonwire: hex dump size %d is too small", n))
	}
	d := *c
	d.hexDumpSize = n
	return &d
}

// WithAppendHexDumpToParseError toggles the hex dump attached to parse
// errors. Disabling it keeps only the description and offset.
func (c *ReaderConfig) WithAppendHexDumpToParseError(on bool) *ReaderConfig {
	d := *c
	d.appendHexDumpToParseError = on
	return &d
}

func (c *ReaderConfig) PreferredBufSize() int { return c.preferredBufSize }

func (c *ReaderConfig) HexDumpSize() int { return c.hexDumpSize }

func (c *ReaderConfig) AppendHexDumpToParseError() bool { return c.appendHexDumpToParseError }

// WriterConfig controls output formatting and stream buffering.
// Immutable, same copy-on-With discipline as ReaderConfig.
type WriterConfig struct {
	indentionStep    int
	preferredBufSize int
	escapeUnicode    bool
}

// DefaultWriterConfig emits compact single-line output with a 16 KiB
// flush buffer.
var DefaultWriterConfig = &WriterConfig{
	indentionStep:    0,
	preferredBufSize: 16384,
	escapeUnicode:    false,
}

// NewWriterConfig returns a private copy of DefaultWriterConfig.
func NewWriterConfig() *WriterConfig {
	c := *DefaultWriterConfig
	return &c
}

// WithIndentionStep sets the number of spaces per nesting level.
// 0 means compact output. Panics if n is negative.
func (c *WriterConfig) WithIndentionStep(n int) *WriterConfig {
	if n < 0 {
		panic(fmt.Sprintf("jsonwire: indention step %d is negative", n))
	}
	d := *c
	d.indentionStep = n
	return &d
}

// WithPreferredBufSize sets the internal buffer size for stream-backed
// writes. Panics if n < 32.
func (c *WriterConfig) WithPreferredBufSize(n int) *WriterConfig {
	if n < 32 {
		panic(fmt.Sprintf("jsonwire: preferred buf size %d is too small", n))
	}
	d := *c
	d.preferredBufSize = n
	return &d
}

// WithEscapeUnicode forces all non-ASCII characters to be written as
// \uXXXX escape sequences.
func (c *WriterConfig) WithEscapeUnicode(on bool) *WriterConfig {
	d := *c
	d.escapeUnicode = on
	return &d
}

func (c *WriterConfig) IndentionStep() int { return c.indentionStep }

func (c *WriterConfig) PreferredBufSize() int { return c.preferredBufSize }

func (c *WriterConfig) EscapeUnicode() bool { return c.escapeUnicode }
