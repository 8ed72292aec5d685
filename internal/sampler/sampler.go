package sampler

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/segment-voltmeter/internal/adc"
	"github.com/sweeney/segment-voltmeter/internal/display"
)

// Sampling defaults.
const (
	Debounce   = 100 * time.Millisecond
	Oversample = 16
	Reference  = 3300 * physic.MilliVolt
)

// Sampler measures the analogue input on demand and stores the result,
// in millivolts, into the display value. It is the Value's only writer.
type Sampler struct {
	in       adc.Input
	value    *display.Value
	gate     *Gate
	capacity uint32
	counts   Counts
	newID    func() string
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithDebounce sets the minimum interval between accepted triggers.
func WithDebounce(d time.Duration) Option {
	return func(s *Sampler) { s.gate = NewGate(d) }
}

// WithDigits sets the display width used to saturate the stored value.
func WithDigits(n int) Option {
	return func(s *Sampler) { s.capacity = display.Capacity(n) }
}

// New creates a Sampler reading in and writing value.
func New(in adc.Input, value *display.Value, opts ...Option) *Sampler {
	s := &Sampler{
		in:       in,
		value:    value,
		gate:     NewGate(Debounce),
		capacity: display.Capacity(display.Count),
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SampleOnTrigger takes a measurement if the debounce gate allows a trigger
// at now. It returns ok=false without touching any state when the trigger
// is debounced. A failed ADC read still consumes the debounce window.
func (s *Sampler) SampleOnTrigger(now time.Time) (m Measurement, ok bool, err error) {
	if !s.gate.Allow(now) {
		s.counts.Rejected++
		return Measurement{}, false, nil
	}

	var sum uint32
	for i := 0; i < Oversample; i++ {
		v, err := s.in.Read()
		if err != nil {
			s.counts.Failed++
			return Measurement{}, false, fmt.Errorf("read adc: %w", err)
		}
		sum += uint32(v)
	}

	voltage := Voltage(sum)
	shown := uint32(voltage / physic.MilliVolt)
	if shown > s.capacity {
		shown = s.capacity
	}
	s.value.Store(shown)
	s.counts.Accepted++

	return Measurement{
		ID:      s.newID(),
		Time:    now,
		Sum:     sum,
		Average: uint16(sum / Oversample),
		Voltage: voltage,
		Display: shown,
	}, true, nil
}

// Counts returns trigger outcomes since startup.
func (s *Sampler) Counts() Counts {
	return s.counts
}

// Voltage converts the sum of Oversample readings to a voltage against
// Reference, rounding down to the nanovolt.
func Voltage(sum uint32) physic.ElectricPotential {
	return physic.ElectricPotential(int64(sum) * int64(Reference) / (Oversample * adc.FullScale))
}
