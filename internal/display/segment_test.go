package display

import "testing"

func TestEncodeTable(t *testing.T) {
	want := []Pattern{
		0xC0, 0xF9, 0xA4, 0xB0, 0x99, 0x92, 0x82, 0xF8,
		0x80, 0x90, 0x88, 0x83, 0xC6, 0xA1, 0x86, 0x8E,
		0xFF,
	}
	for digit, w := range want {
		if got := Encode(digit); got != w {
			t.Errorf("Encode(%d): got %#02x, want %#02x", digit, uint8(got), uint8(w))
		}
	}
}

func TestEncodeOutOfRangeIsBlank(t *testing.T) {
	for _, digit := range []int{-1, 17, 100} {
		if got := Encode(digit); got != PatternBlank {
			t.Errorf("Encode(%d): got %#02x, want blank", digit, uint8(got))
		}
	}
}

func TestPatternSegments(t *testing.T) {
	tests := []struct {
		digit int
		dp    bool
		want  string
	}{
		{0, false, "abcdef-"},
		{1, false, "-bc----"},
		{8, true, "abcdefg."},
		{7, false, "abc----"},
		{0xA, false, "abc-efg"},
		{0xF, true, "a---efg."},
		{Blank, false, "-------"},
		{Blank, true, "-------."},
	}
	for _, tt := range tests {
		if got := Encode(tt.digit).WithDP(tt.dp).String(); got != tt.want {
			t.Errorf("digit %d dp=%v: got %q, want %q", tt.digit, tt.dp, got, tt.want)
		}
	}
}

func TestWithDPOnlyTouchesPoint(t *testing.T) {
	for digit := 0; digit <= Blank; digit++ {
		p := Encode(digit)
		if p.Lit(7) {
			t.Errorf("digit %d: point lit by default", digit)
		}
		on := p.WithDP(true)
		if !on.Lit(7) {
			t.Errorf("digit %d: WithDP(true) did not light point", digit)
		}
		if on.WithDP(false) != p {
			t.Errorf("digit %d: WithDP round trip changed segments", digit)
		}
	}
}
