// Package display drives a directly multiplexed 7-segment display.
//
// The Multiplexer lights one digit per timer tick, reading the number to show
// from a Value that another goroutine replaces wholesale. The scan callback
// does integer arithmetic and a fixed number of line writes; it never sleeps.
package display

import (
	"fmt"
	"sync/atomic"
)

// Value is the number shown on the display. It has a single writer and a
// single reader and is only ever replaced as a whole, so a scan tick never
// sees a half-updated number.
type Value struct {
	v atomic.Uint32
}

// Load returns the current value.
func (v *Value) Load() uint32 {
	return v.v.Load()
}

// Store replaces the current value.
func (v *Value) Store(n uint32) {
	v.v.Store(n)
}

// Capacity returns the largest number digits decimal digits can show.
func Capacity(digits int) uint32 {
	c := uint32(1)
	for i := 0; i < digits; i++ {
		c *= 10
	}
	return c - 1
}

// Counter counts up on the display, wrapping to zero past its capacity.
// It replaces the sampler as the Value writer when running as a demo.
type Counter struct {
	value *Value
	max   uint32
}

// NewCounter creates a Counter over digits decimal digits.
func NewCounter(value *Value, digits int) *Counter {
	return &Counter{value: value, max: Capacity(digits)}
}

// Step advances the counter by one.
func (c *Counter) Step() {
	n := c.value.Load() + 1
	if n > c.max {
		n = 0
	}
	c.value.Store(n)
}

// Format renders n the way the display shows it: zero padded to digits with
// the point before decimal position dp. dp == 0 means no point.
func Format(n uint32, digits, dp int) string {
	s := fmt.Sprintf("%0*d", digits, n)
	if dp <= 0 || dp >= len(s) {
		return s
	}
	return s[:len(s)-dp] + "." + s[len(s)-dp:]
}
