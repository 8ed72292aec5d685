//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// CdevChip hands out lines from a Linux GPIO character device.
type CdevChip struct {
	chip  *gpiocdev.Chip
	lines []*gpiocdev.Line
}

// NewCdevChip opens the named chip (e.g. "gpiochip0").
func NewCdevChip(name string) (*CdevChip, error) {
	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &CdevChip{chip: chip}, nil
}

// Output requests offset as an output driven to the initial level.
func (c *CdevChip) Output(offset int, initial bool) (Output, error) {
	l, err := c.chip.RequestLine(offset, gpiocdev.AsOutput(levelToValue(initial)))
	if err != nil {
		return nil, fmt.Errorf("request output pin %d: %w", offset, err)
	}
	c.lines = append(c.lines, l)
	return &cdevLine{line: l}, nil
}

// Input requests offset as an input with pull-up, matching an active-low button.
func (c *CdevChip) Input(offset int) (Input, error) {
	l, err := c.chip.RequestLine(offset, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request input pin %d: %w", offset, err)
	}
	c.lines = append(c.lines, l)
	return &cdevLine{line: l}, nil
}

// Close releases GPIO resources.
// Lines are reconfigured to input with pull-down (matching Pi boot defaults)
// before closing so the display is left dark.
func (c *CdevChip) Close() error {
	var errs []error

	for _, l := range c.lines {
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", l.Offset(), err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", l.Offset(), err))
		}
	}
	c.lines = nil
	if c.chip != nil {
		if err := c.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type cdevLine struct {
	line *gpiocdev.Line
}

func (l *cdevLine) Write(high bool) error {
	return l.line.SetValue(levelToValue(high))
}

func (l *cdevLine) Read() (bool, error) {
	v, err := l.line.Value()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func levelToValue(high bool) int {
	if high {
		return 1
	}
	return 0
}
