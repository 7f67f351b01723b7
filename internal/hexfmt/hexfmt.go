// Package hexfmt renders the bordered hex+ASCII table attached to parse
// failures. The layout is part of the engine's compatibility contract and
// must be reproduced byte for byte:
//
//	           +-------------------------------------------------+
//	           |  0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f |
//	+----------+-------------------------------------------------+------------------+
//	| 00000000 | 48 54 54 50 2f 31 2e 30 20 32 30 30 20 4f 4b 0d | HTTP/1.0 200 OK. |
//	+----------+-------------------------------------------------+------------------+
package hexfmt

import (
	"fmt"
	"strings"
)

const (
	topBorder    = "           +-------------------------------------------------+\n"
	columnHeader = "           |  0  1  2  3  4  5  6  7  8  9  a  b  c  d  e  f |\n"
	rowBorder    = "+----------+-------------------------------------------------+------------------+"
)

// Table renders the window of buf surrounding pos. buf holds the bytes at
// logical offsets [base, base+len(buf)); pos is the absolute failure
// offset. lines controls how many 16-byte rows of context precede and
// follow pos: the window spans 16-aligned offsets
// [pos-16*lines, pos+16*(lines+1)), clipped to the buffer. Cells outside
// the window are blank, non-printable bytes render as '.'.
func Table(buf []byte, base, pos int64, lines int) string {
	from := (pos - int64(lines)*16) &^ 15
	if from < base {
		from = base
	}
	to := (pos + int64(lines+1)*16) &^ 15
	if limit := base + int64(len(buf)); to > limit {
		to = limit
	}

	var sb strings.Builder
	sb.WriteString(topBorder)
	sb.WriteString(columnHeader)
	sb.WriteString(rowBorder)
	sb.WriteByte('\n')
	for row := from &^ 15; row < to; row += 16 {
		fmt.Fprintf(&sb, "| %08x |", uint64(row))
		var ascii [16]byte
		for i := int64(0); i < 16; i++ {
			abs := row + i
			if abs < from || abs >= to {
				sb.WriteString("   ")
				ascii[i] = ' '
				continue
			}
			b := buf[abs-base]
			fmt.Fprintf(&sb, " %02x", b)
			if b >= 0x20 && b <= 0x7e {
				ascii[i] = b
			} else {
				ascii[i] = '.'
			}
		}
		sb.WriteString(" | ")
		sb.Write(ascii[:])
		sb.WriteString(" |\n")
	}
	sb.WriteString(rowBorder)
	return sb.String()
}
