// Package timer provides the periodic callback used to drive the display scan.
package timer

import (
	"sync"
	"time"
)

// Periodic invokes a callback at a fixed period until stopped.
type Periodic interface {
	// Start arms the timer. A running timer is stopped first.
	Start(period time.Duration, fn func())
	// Stop disarms the timer. When Stop returns no callback is running.
	Stop()
}

// Ticker is a Periodic backed by a time.Ticker and a single goroutine.
// Callbacks never overlap; a slow callback drops ticks instead of queuing them.
type Ticker struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewTicker creates a stopped Ticker.
func NewTicker() *Ticker {
	return &Ticker{}
}

// Start arms the timer.
func (t *Ticker) Start(period time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()

	stop := make(chan struct{})
	done := make(chan struct{})
	t.stop, t.done = stop, done

	go func() {
		defer close(done)
		tk := time.NewTicker(period)
		defer tk.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tk.C:
				fn()
			}
		}
	}()
}

// Stop disarms the timer and waits for an in-flight callback to return.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopLocked()
	t.mu.Unlock()
}

func (t *Ticker) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop, t.done = nil, nil
}
