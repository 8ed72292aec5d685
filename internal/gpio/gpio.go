// Package gpio provides digital line access with hardware abstraction.
// The real implementations use the Linux GPIO character device or periph.io.
// The fake implementations allow testing without hardware.
package gpio

// Output drives a single digital line.
type Output interface {
	// Write sets the physical level of the line (true = high).
	Write(high bool) error
}

// Input reads a single digital line.
type Input interface {
	// Read returns the physical level of the line (true = high).
	Read() (bool, error)
}

// Pin definitions (BCM numbering)
const (
	DefaultSegmentStart = 2  // segments a..g on 2..8, DP on 9
	DefaultSelectStart  = 10 // digit selects on 10..13, least significant first
	DefaultButton       = 16 // active-low, pulled up
)

// Chip hands out lines from one backend and releases them on Close.
type Chip interface {
	Output(offset int, initial bool) (Output, error)
	Input(offset int) (Input, error)
	Close() error
}
