package gpio

import (
	"errors"
	"sync"
)

// FakeOutput is a test double that records every level written to it.
type FakeOutput struct {
	mu sync.Mutex

	// Writes contains every level passed to Write, in order.
	Writes []bool

	// WriteError, if set, will be returned by Write (the level is not recorded).
	WriteError error
}

// NewFakeOutput creates a FakeOutput.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Write records the level.
func (f *FakeOutput) Write(high bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, high)
	return nil
}

// Level returns the last written level and whether anything was written.
func (f *FakeOutput) Level() (high bool, written bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Writes) == 0 {
		return false, false
	}
	return f.Writes[len(f.Writes)-1], true
}

// Count returns the number of recorded writes.
func (f *FakeOutput) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Writes)
}

// Reset clears recorded writes.
func (f *FakeOutput) Reset() {
	f.mu.Lock()
	f.Writes = nil
	f.WriteError = nil
	f.mu.Unlock()
}

// FakeInput is a test double that returns scripted levels.
type FakeInput struct {
	// Levels contains scripted values to return.
	// Each call to Read() consumes the next level.
	Levels []bool

	// index tracks current position in Levels
	index int

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeInput creates a FakeInput with the given levels.
func NewFakeInput(levels ...bool) *FakeInput {
	return &FakeInput{Levels: levels}
}

// Read returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeInput) Read() (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Levels) == 0 {
		return false, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}
	return level, nil
}

// Reset rewinds the input to the first level.
func (f *FakeInput) Reset() {
	f.index = 0
}
