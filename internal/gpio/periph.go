package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// PeriphChip hands out lines through periph.io's pin registry.
// Offsets are resolved by BCM number ("GPIO17").
type PeriphChip struct {
	pins   []gpio.PinIO
	lookup func(name string) gpio.PinIO
}

// NewPeriphChip initializes the periph.io host drivers.
func NewPeriphChip() (*PeriphChip, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	return &PeriphChip{lookup: gpioreg.ByName}, nil
}

func (c *PeriphChip) pin(offset int) (gpio.PinIO, error) {
	p := c.lookup(fmt.Sprintf("GPIO%d", offset))
	if p == nil {
		return nil, fmt.Errorf("pin GPIO%d not found", offset)
	}
	return p, nil
}

// Output configures offset as an output driven to the initial level.
func (c *PeriphChip) Output(offset int, initial bool) (Output, error) {
	p, err := c.pin(offset)
	if err != nil {
		return nil, err
	}
	if err := p.Out(gpio.Level(initial)); err != nil {
		return nil, fmt.Errorf("configure output %s: %w", p, err)
	}
	c.pins = append(c.pins, p)
	return periphLine{p}, nil
}

// Input configures offset as an input with pull-up.
func (c *PeriphChip) Input(offset int) (Input, error) {
	p, err := c.pin(offset)
	if err != nil {
		return nil, err
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("configure input %s: %w", p, err)
	}
	c.pins = append(c.pins, p)
	return periphLine{p}, nil
}

// Close returns every configured pin to a pulled-down input.
func (c *PeriphChip) Close() error {
	var errs []error
	for _, p := range c.pins {
		if err := p.In(gpio.PullDown, gpio.NoEdge); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", p, err))
		}
		if err := p.Halt(); err != nil {
			errs = append(errs, fmt.Errorf("halt %s: %w", p, err))
		}
	}
	c.pins = nil
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

type periphLine struct {
	pin gpio.PinIO
}

func (l periphLine) Write(high bool) error {
	return l.pin.Out(gpio.Level(high))
}

func (l periphLine) Read() (bool, error) {
	return bool(l.pin.Read()), nil
}
