// Package adc provides analogue input sampling with hardware abstraction.
// The real implementation reads a Linux IIO channel from sysfs.
// The fake implementation allows testing without hardware.
package adc

// FullScale is the largest sample value. Every Input reports samples
// scaled to 16 bits regardless of the converter's resolution.
const FullScale = 1<<16 - 1

// Input reads one analogue channel.
type Input interface {
	// Read returns one conversion scaled to 0..FullScale.
	Read() (uint16, error)
}

// scale maps a raw conversion of the given resolution onto 0..FullScale.
func scale(raw uint32, bits uint) uint16 {
	if bits == 16 {
		return uint16(raw)
	}
	max := uint32(1)<<bits - 1
	if raw > max {
		raw = max
	}
	return uint16(uint64(raw) * FullScale / uint64(max))
}
