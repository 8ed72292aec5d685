// Package config loads the display and ADC wiring from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sweeney/segment-voltmeter/internal/adc"
	"github.com/sweeney/segment-voltmeter/internal/display"
	"github.com/sweeney/segment-voltmeter/internal/gpio"
)

// Wiring maps the display, button and ADC onto hardware.
type Wiring struct {
	Chip     string `yaml:"chip"`
	Segments []int  `yaml:"segments"` // a..g
	DP       int    `yaml:"dp"`
	Selects  []int  `yaml:"selects"` // least significant digit first
	Button   int    `yaml:"button"`
	ADC      ADC    `yaml:"adc"`
}

// ADC locates the analogue channel.
type ADC struct {
	Path string `yaml:"path"`
	Bits int    `yaml:"bits"`
}

// Default returns the wiring used when no file is given: segments a..g on
// BCM 2-8, the point on 9, digit selects on 10-13 and the button on 16.
func Default() Wiring {
	w := Wiring{
		Chip:   "gpiochip0",
		DP:     gpio.DefaultSegmentStart + 7,
		Button: gpio.DefaultButton,
		ADC:    ADC{Path: adc.DefaultIIOPath, Bits: 12},
	}
	for i := 0; i < 7; i++ {
		w.Segments = append(w.Segments, gpio.DefaultSegmentStart+i)
	}
	for i := 0; i < display.Count; i++ {
		w.Selects = append(w.Selects, gpio.DefaultSelectStart+i)
	}
	return w
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Wiring, error) {
	w := Default()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Wiring{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Wiring{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return Wiring{}, fmt.Errorf("config %s: %w", path, err)
	}
	return w, nil
}

// Validate checks line counts and that no line is used twice.
func (w Wiring) Validate() error {
	if len(w.Segments) != 7 {
		return fmt.Errorf("need 7 segment lines, got %d", len(w.Segments))
	}
	if len(w.Selects) == 0 || len(w.Selects) > 9 {
		return fmt.Errorf("need 1-9 digit select lines, got %d", len(w.Selects))
	}
	if w.Chip == "" {
		return errors.New("chip not set")
	}

	seen := map[int]string{}
	claim := func(pin int, use string) error {
		if pin < 0 {
			return fmt.Errorf("%s: invalid pin %d", use, pin)
		}
		if prev, ok := seen[pin]; ok {
			return fmt.Errorf("pin %d used for both %s and %s", pin, prev, use)
		}
		seen[pin] = use
		return nil
	}
	for i, p := range w.Segments {
		if err := claim(p, fmt.Sprintf("segment %c", 'a'+i)); err != nil {
			return err
		}
	}
	if err := claim(w.DP, "dp"); err != nil {
		return err
	}
	for i, p := range w.Selects {
		if err := claim(p, fmt.Sprintf("select %d", i)); err != nil {
			return err
		}
	}
	return claim(w.Button, "button")
}
