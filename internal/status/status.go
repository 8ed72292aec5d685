// Package status provides a thread-safe status tracker for the voltmeter daemon.
// It is read by HTTP handlers and by system events published to MQTT.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/segment-voltmeter/internal/sampler"
)

// Display is the live view of the scanning display.
type Display interface {
	Shown() uint32
	Digits() int
	DecimalPosition() int
	Running() bool
	WriteErrors() uint64
}

// Config contains daemon configuration for display.
type Config struct {
	Mode       string // "sample" or "count"
	Backend    string
	ScanMs     int64
	PollMs     int64
	DebounceMs int64
	Broker     string
	HTTPAddr   string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	Value         uint32
	Digits        int
	DecimalPos    int
	Scanning      bool
	WriteErrors   uint64
	Last          *sampler.Measurement
	Counts        sampler.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu      sync.RWMutex
	snap    Snapshot
	display Display
	now     func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetDisplay attaches the display whose state is reported in snapshots.
func (t *Tracker) SetDisplay(d Display) {
	t.mu.Lock()
	t.display = d
	t.mu.Unlock()
}

// Record stores an accepted measurement.
func (t *Tracker) Record(m sampler.Measurement) {
	t.mu.Lock()
	t.snap.Last = &m
	t.mu.Unlock()
}

// SetCounts sets the trigger outcome counts.
func (t *Tracker) SetCounts(c sampler.Counts) {
	t.mu.Lock()
	t.snap.Counts = c
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	d := t.display
	t.mu.RUnlock()

	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	if d != nil {
		s.Value = d.Shown()
		s.Digits = d.Digits()
		s.DecimalPos = d.DecimalPosition()
		s.Scanning = d.Running()
		s.WriteErrors = d.WriteErrors()
	}
	s.Now = t.now()
	return s
}
