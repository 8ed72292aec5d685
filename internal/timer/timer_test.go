package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerFiresPeriodically(t *testing.T) {
	tk := NewTicker()
	var n atomic.Int32
	fired := make(chan struct{}, 16)

	tk.Start(time.Millisecond, func() {
		n.Add(1)
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	defer tk.Stop()

	for i := 0; i < 3; i++ {
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for tick %d", i)
		}
	}
	if n.Load() < 3 {
		t.Errorf("expected at least 3 callbacks, got %d", n.Load())
	}
}

func TestTickerStopWaitsForCallback(t *testing.T) {
	tk := NewTicker()
	var running atomic.Bool
	entered := make(chan struct{}, 1)

	tk.Start(time.Millisecond, func() {
		running.Store(true)
		select {
		case entered <- struct{}{}:
		default:
		}
		time.Sleep(5 * time.Millisecond)
		running.Store(false)
	})

	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
	tk.Stop()

	if running.Load() {
		t.Error("callback still running after Stop returned")
	}
}

func TestTickerStopIdempotent(t *testing.T) {
	tk := NewTicker()
	tk.Stop()
	tk.Start(time.Hour, func() {})
	tk.Stop()
	tk.Stop()
}

func TestTickerRestartReplacesCallback(t *testing.T) {
	tk := NewTicker()
	var first, second atomic.Int32
	got := make(chan struct{}, 1)

	tk.Start(time.Hour, func() { first.Add(1) })
	tk.Start(time.Millisecond, func() {
		second.Add(1)
		select {
		case got <- struct{}{}:
		default:
		}
	})
	defer tk.Stop()

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("restarted timer never fired")
	}
	if first.Load() != 0 {
		t.Errorf("replaced callback fired %d times", first.Load())
	}
}

func TestFake(t *testing.T) {
	f := NewFake()
	var n int

	f.Fire(1)
	if n != 0 {
		t.Fatal("stopped fake should not fire")
	}

	f.Start(30*time.Millisecond, func() { n++ })
	if !f.Running() || f.Period != 30*time.Millisecond {
		t.Errorf("expected running at 30ms, got running=%v period=%v", f.Running(), f.Period)
	}
	f.Fire(3)
	if n != 3 {
		t.Errorf("expected 3 callbacks, got %d", n)
	}

	f.Stop()
	f.Fire(2)
	if n != 3 {
		t.Errorf("expected no callbacks after stop, got %d", n)
	}
	if f.Starts != 1 || f.Stops != 1 {
		t.Errorf("expected 1 start and 1 stop, got %d/%d", f.Starts, f.Stops)
	}
}
