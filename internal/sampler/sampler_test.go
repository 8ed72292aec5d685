package sampler

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/segment-voltmeter/internal/adc"
	"github.com/sweeney/segment-voltmeter/internal/display"
)

func newTestSampler(samples ...uint16) (*Sampler, *adc.Fake, *display.Value) {
	in := adc.NewFake(samples...)
	v := &display.Value{}
	s := New(in, v)
	s.newID = func() string { return "test-id" }
	return s, in, v
}

func TestGateFirstTriggerAccepted(t *testing.T) {
	g := NewGate(100 * time.Millisecond)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if !g.Allow(now) {
		t.Fatal("first trigger should be accepted")
	}
	last, armed := g.Last()
	if !armed || !last.Equal(now) {
		t.Errorf("Last: got (%v, %v), want (%v, true)", last, armed, now)
	}
}

func TestGateDebounce(t *testing.T) {
	g := NewGate(100 * time.Millisecond)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	g.Allow(now)

	if g.Allow(now.Add(99 * time.Millisecond)) {
		t.Error("trigger 99ms later should be rejected")
	}
	// A rejected trigger does not move the window.
	if !g.Allow(now.Add(100 * time.Millisecond)) {
		t.Error("trigger 100ms after the accepted one should be accepted")
	}
	if g.Allow(now.Add(150 * time.Millisecond)) {
		t.Error("trigger 50ms after the second accepted one should be rejected")
	}
}

func TestSampleScaling(t *testing.T) {
	tests := []struct {
		name    string
		sample  uint16
		display uint32
	}{
		{"zero", 0, 0},
		{"full scale", adc.FullScale, 3300},
		{"half scale", 32767, 1649},
		{"20000", 20000, 1007},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, in, v := newTestSampler(tt.sample)
			m, ok, err := s.SampleOnTrigger(time.Now())
			if err != nil || !ok {
				t.Fatalf("SampleOnTrigger: ok=%v err=%v", ok, err)
			}
			if m.Display != tt.display {
				t.Errorf("Display: got %d, want %d", m.Display, tt.display)
			}
			if v.Load() != tt.display {
				t.Errorf("Value: got %d, want %d", v.Load(), tt.display)
			}
			if m.Average != tt.sample {
				t.Errorf("Average: got %d, want %d", m.Average, tt.sample)
			}
			if in.Reads != Oversample {
				t.Errorf("expected %d ADC reads, got %d", Oversample, in.Reads)
			}
		})
	}
}

func TestSampleAveragesOversampledReadings(t *testing.T) {
	samples := make([]uint16, Oversample)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 19000
		} else {
			samples[i] = 21000
		}
	}
	s, _, v := newTestSampler(samples...)

	m, _, _ := s.SampleOnTrigger(time.Now())
	if m.Sum != 320000 {
		t.Errorf("Sum: got %d, want 320000", m.Sum)
	}
	if m.Average != 20000 {
		t.Errorf("Average: got %d, want 20000", m.Average)
	}
	if v.Load() != 1007 {
		t.Errorf("Value: got %d, want 1007", v.Load())
	}
}

func TestSampleVoltage(t *testing.T) {
	s, _, _ := newTestSampler(20000)

	m, _, _ := s.SampleOnTrigger(time.Now())
	if m.Voltage != 1007095445*physic.NanoVolt {
		t.Errorf("Voltage: got %d nV, want 1007095445", int64(m.Voltage))
	}
	if got := m.String(); got != "Measured voltage: 1.007 V" {
		t.Errorf("String: got %q", got)
	}
	if m.ID != "test-id" {
		t.Errorf("ID: got %q", m.ID)
	}
}

func TestFullScaleVoltageIsReference(t *testing.T) {
	if got := Voltage(Oversample * adc.FullScale); got != Reference {
		t.Errorf("got %v, want %v", got, Reference)
	}
}

func TestSampleDebounce(t *testing.T) {
	s, in, v := newTestSampler(20000)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if _, ok, _ := s.SampleOnTrigger(now); !ok {
		t.Fatal("first trigger should be accepted")
	}
	v.Store(42)
	reads := in.Reads

	m, ok, err := s.SampleOnTrigger(now.Add(50 * time.Millisecond))
	if ok || err != nil {
		t.Fatalf("trigger within 100ms: ok=%v err=%v, want rejected", ok, err)
	}
	if m != (Measurement{}) {
		t.Errorf("rejected trigger should return zero measurement, got %+v", m)
	}
	if in.Reads != reads {
		t.Errorf("rejected trigger read the ADC %d times", in.Reads-reads)
	}
	if v.Load() != 42 {
		t.Errorf("rejected trigger changed display value to %d", v.Load())
	}

	if _, ok, _ := s.SampleOnTrigger(now.Add(100 * time.Millisecond)); !ok {
		t.Error("trigger 100ms later should be accepted")
	}
	if _, ok, _ := s.SampleOnTrigger(now.Add(250 * time.Millisecond)); !ok {
		t.Error("trigger 150ms later should be accepted")
	}

	c := s.Counts()
	if c.Accepted != 3 || c.Rejected != 1 {
		t.Errorf("Counts: got %+v, want 3 accepted 1 rejected", c)
	}
}

func TestSampleReadError(t *testing.T) {
	s, in, v := newTestSampler(20000)
	v.Store(1234)
	in.ReadError = errors.New("adc busy")
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	_, ok, err := s.SampleOnTrigger(now)
	if ok || err == nil {
		t.Fatalf("expected error, got ok=%v err=%v", ok, err)
	}
	if v.Load() != 1234 {
		t.Errorf("failed read changed display value to %d", v.Load())
	}

	// The failed trigger consumed the debounce window.
	in.ReadError = nil
	if _, ok, _ := s.SampleOnTrigger(now.Add(10 * time.Millisecond)); ok {
		t.Error("trigger inside window after a failed read should be rejected")
	}
	if s.Counts().Failed != 1 {
		t.Errorf("Failed: got %d, want 1", s.Counts().Failed)
	}
}

func TestSampleSaturatesAtDisplayCapacity(t *testing.T) {
	in := adc.NewFake(adc.FullScale)
	v := &display.Value{}
	s := New(in, v, WithDigits(3))

	m, _, _ := s.SampleOnTrigger(time.Now())
	if m.Display != 999 || v.Load() != 999 {
		t.Errorf("expected saturation at 999, got measurement %d value %d", m.Display, v.Load())
	}
}

func TestWithDebounce(t *testing.T) {
	in := adc.NewFake(1)
	s := New(in, &display.Value{}, WithDebounce(time.Second))
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	s.SampleOnTrigger(now)
	if _, ok, _ := s.SampleOnTrigger(now.Add(500 * time.Millisecond)); ok {
		t.Error("expected rejection inside 1s window")
	}
}
