package display

import "strings"

// Pattern is the level of each display line for one digit: bits 0..6 drive
// segments a..g and bit 7 drives the decimal point. Lines are active-low, so a
// cleared bit is a lit segment.
type Pattern uint8

// Blank is the digit index that turns every segment off.
const Blank = 16

const (
	dpBit Pattern = 1 << 7

	// PatternBlank has every segment and the decimal point off.
	PatternBlank Pattern = 0xFF
)

// 0-9, A-F, blank. Decimal point off.
var patterns = [Blank + 1]Pattern{
	0x40 | dpBit, // 0
	0x79 | dpBit, // 1
	0x24 | dpBit, // 2
	0x30 | dpBit, // 3
	0x19 | dpBit, // 4
	0x12 | dpBit, // 5
	0x02 | dpBit, // 6
	0x78 | dpBit, // 7
	0x00 | dpBit, // 8
	0x10 | dpBit, // 9
	0x08 | dpBit, // A
	0x03 | dpBit, // b
	0x46 | dpBit, // C
	0x21 | dpBit, // d
	0x06 | dpBit, // E
	0x0E | dpBit, // F
	PatternBlank,
}

// Encode returns the pattern for digit (0-15, or Blank). Any index outside the
// table encodes as PatternBlank.
func Encode(digit int) Pattern {
	if digit < 0 || digit >= len(patterns) {
		return PatternBlank
	}
	return patterns[digit]
}

// WithDP returns p with the decimal point lit or dark.
func (p Pattern) WithDP(on bool) Pattern {
	if on {
		return p &^ dpBit
	}
	return p | dpBit
}

// Lit reports whether line i (0-6 = a-g, 7 = DP) is lit.
func (p Pattern) Lit(i int) bool {
	return p&(1<<uint(i)) == 0
}

// level is the physical level to write to line i.
func (p Pattern) level(i int) bool {
	return !p.Lit(i)
}

// String lists the lit segments, e.g. "abcdef-." for a zero with its point lit.
func (p Pattern) String() string {
	var b strings.Builder
	for i, name := range "abcdefg" {
		if p.Lit(i) {
			b.WriteRune(name)
		} else {
			b.WriteByte('-')
		}
	}
	if p.Lit(7) {
		b.WriteByte('.')
	}
	return b.String()
}
