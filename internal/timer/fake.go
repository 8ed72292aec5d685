package timer

import (
	"sync"
	"time"
)

// Fake is a Periodic driven by hand from tests.
type Fake struct {
	mu sync.Mutex
	fn func()

	// Period is the period passed to the most recent Start.
	Period time.Duration
	// Starts and Stops count calls.
	Starts int
	Stops  int
}

// NewFake creates a stopped Fake.
func NewFake() *Fake {
	return &Fake{}
}

// Start records the period and callback.
func (f *Fake) Start(period time.Duration, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Period = period
	f.fn = fn
	f.Starts++
}

// Stop disarms the callback.
func (f *Fake) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = nil
	f.Stops++
}

// Running reports whether a callback is armed.
func (f *Fake) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn != nil
}

// Fire invokes the armed callback n times. It does nothing when stopped.
func (f *Fake) Fire(n int) {
	for i := 0; i < n; i++ {
		f.mu.Lock()
		fn := f.fn
		f.mu.Unlock()
		if fn == nil {
			return
		}
		fn()
	}
}
