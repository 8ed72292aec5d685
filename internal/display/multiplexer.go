package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/gpio"
	"github.com/sweeney/segment-voltmeter/internal/timer"
)

// Display defaults.
const (
	Count           = 4
	DecimalPosition = 3 // thousandths: 1234 shows as 1.234
	ScanPeriod      = 30 * time.Millisecond
	TestStep        = 500 * time.Millisecond
)

// Select chooses which digit lines are asserted while a pattern is shown.
type Select struct {
	index int
	all   bool
}

// AllDigits asserts every digit at once. Used by the diagnostic test only.
var AllDigits = Select{all: true}

// Digit selects the digit at index i, counted from the least significant.
func Digit(i int) Select {
	return Select{index: i}
}

func (s Select) String() string {
	if s.all {
		return "all"
	}
	return fmt.Sprintf("digit %d", s.index)
}

// Lines are the output lines of the display.
type Lines struct {
	Segments [7]gpio.Output // a..g, active-low
	DP       gpio.Output    // active-low
	Selects  []gpio.Output  // least significant digit first, active-high
}

// Options configures a Multiplexer.
type Options struct {
	// DecimalPosition is the digit whose point is lit. Zero disables the point.
	DecimalPosition int
}

// Multiplexer scans Value onto the display, one digit per Tick.
type Multiplexer struct {
	lines Lines
	value *Value
	timer timer.Periodic
	dp    int
	pow   []uint32

	// cursor is owned by whoever calls Tick: the timer callback while
	// scanning, the caller otherwise.
	cursor int

	mu      sync.Mutex
	period  time.Duration
	running atomic.Bool

	writeErrors atomic.Uint64
}

// NewMultiplexer validates the lines and returns a stopped Multiplexer.
func NewMultiplexer(lines Lines, value *Value, t timer.Periodic, opts Options) (*Multiplexer, error) {
	n := len(lines.Selects)
	if n == 0 || n > 9 {
		return nil, fmt.Errorf("display: unsupported digit count %d", n)
	}
	for i, s := range lines.Segments {
		if s == nil {
			return nil, fmt.Errorf("display: segment line %d not set", i)
		}
	}
	if lines.DP == nil {
		return nil, errors.New("display: decimal point line not set")
	}
	for i, s := range lines.Selects {
		if s == nil {
			return nil, fmt.Errorf("display: select line %d not set", i)
		}
	}
	if opts.DecimalPosition < 0 || opts.DecimalPosition >= n {
		return nil, fmt.Errorf("display: decimal position %d outside 0..%d", opts.DecimalPosition, n-1)
	}

	pow := make([]uint32, n)
	pow[0] = 1
	for i := 1; i < n; i++ {
		pow[i] = pow[i-1] * 10
	}

	return &Multiplexer{
		lines:  lines,
		value:  value,
		timer:  t,
		dp:     opts.DecimalPosition,
		pow:    pow,
		cursor: n - 1,
	}, nil
}

// Digits returns the number of digits on the display.
func (m *Multiplexer) Digits() int {
	return len(m.pow)
}

// Cursor returns the digit the next Tick will show.
func (m *Multiplexer) Cursor() int {
	return m.cursor
}

// WriteErrors returns the number of line writes that have failed.
func (m *Multiplexer) WriteErrors() uint64 {
	return m.writeErrors.Load()
}

// Tick shows the digit under the cursor and moves the cursor one digit
// towards the least significant, wrapping to the most significant.
func (m *Multiplexer) Tick() {
	v := m.value.Load()
	c := m.cursor
	digit := int(v / m.pow[c] % 10)

	m.DisplayDigit(digit, Digit(c), c == m.dp && m.dp != 0)

	c--
	if c < 0 {
		c = len(m.pow) - 1
	}
	m.cursor = c
}

// DisplayDigit shows value (0-15 or Blank) on the selected digits.
// Values outside 0..Blank are ignored. Every select line is released before
// the segment lines change so the old digit never shows the new pattern.
func (m *Multiplexer) DisplayDigit(value int, sel Select, dp bool) {
	if value < 0 || value > Blank {
		return
	}

	for _, s := range m.lines.Selects {
		m.write(s, false)
	}

	p := Encode(value).WithDP(dp)
	for i, s := range m.lines.Segments {
		m.write(s, p.level(i))
	}
	m.write(m.lines.DP, p.level(7))

	switch {
	case sel.all:
		for _, s := range m.lines.Selects {
			m.write(s, true)
		}
	case sel.index >= 0 && sel.index < len(m.lines.Selects):
		m.write(m.lines.Selects[sel.index], true)
	}
}

func (m *Multiplexer) write(o gpio.Output, high bool) {
	if err := o.Write(high); err != nil {
		m.writeErrors.Add(1)
	}
}

// Start scans the display every period.
func (m *Multiplexer) Start(period time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.period = period
	m.running.Store(true)
	m.timer.Start(period, m.Tick)
}

// Stop halts scanning. The last digit stays lit.
func (m *Multiplexer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timer.Stop()
	m.running.Store(false)
}

// Running reports whether the scan timer is armed.
func (m *Multiplexer) Running() bool {
	return m.running.Load()
}

// RunValueTest pauses scanning and steps through every pattern for a visual
// check of the wiring: each value on all digits with the point on odd values,
// then each value walking across the digits with the point lit. The display
// is blanked and scanning resumes afterwards, also when ctx is cancelled.
func (m *Multiplexer) RunValueTest(ctx context.Context, step time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.timer.Stop()
	defer func() {
		m.DisplayDigit(Blank, AllDigits, false)
		if m.running.Load() {
			m.timer.Start(m.period, m.Tick)
		}
	}()

	n := len(m.pow)
	for i := 0; i <= Blank; i++ {
		m.DisplayDigit(i, AllDigits, i%2 != 0)
		if err := pause(ctx, step); err != nil {
			return err
		}
	}
	for i := 0; i <= Blank; i++ {
		m.DisplayDigit(i, Digit(n-1-i%n), true)
		if err := pause(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Shown returns the number currently being scanned.
func (m *Multiplexer) Shown() uint32 {
	return m.value.Load()
}

// DecimalPosition returns the digit whose point is lit, or zero.
func (m *Multiplexer) DecimalPosition() int {
	return m.dp
}
