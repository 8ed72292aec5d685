package sampler

import "time"

// Gate accepts a trigger only when at least interval has passed since the
// last accepted one. The first trigger is always accepted.
type Gate struct {
	interval time.Duration
	last     time.Time
	armed    bool
}

// NewGate creates a Gate with the given minimum interval.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval}
}

// Allow reports whether a trigger at now is accepted, and records it if so.
// A rejected trigger leaves the gate unchanged.
func (g *Gate) Allow(now time.Time) bool {
	if g.armed && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	g.armed = true
	return true
}

// Last returns the time of the last accepted trigger.
func (g *Gate) Last() (time.Time, bool) {
	return g.last, g.armed
}
