// Package sampler turns a debounced trigger into a voltage measurement and
// publishes the scaled value to the display.
// This package does no sleeping; time is always injected via time.Time parameters.
package sampler

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Measurement is one accepted, oversampled voltage reading.
type Measurement struct {
	ID      string
	Time    time.Time
	Sum     uint32 // sum of Oversample raw readings
	Average uint16
	Voltage physic.ElectricPotential
	Display uint32 // millivolts as shown on the display
}

// Volts returns the voltage as a float for formatting.
func (m Measurement) Volts() float64 {
	return float64(m.Voltage) / float64(physic.Volt)
}

// String formats the measurement the way it is logged.
func (m Measurement) String() string {
	return fmt.Sprintf("Measured voltage: %.3f V", m.Volts())
}

// Counts tracks trigger outcomes since startup.
type Counts struct {
	Accepted int
	Rejected int // debounced
	Failed   int // ADC read errors
}
