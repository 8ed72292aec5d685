package adc

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
)

// DefaultIIOPath is the first channel of the first IIO device.
const DefaultIIOPath = "/sys/bus/iio/devices/iio:device0/in_voltage0_raw"

// IIO reads raw conversions from a Linux industrial I/O sysfs attribute.
type IIO struct {
	path string
	bits uint
	read func(string) ([]byte, error)
}

// NewIIO creates a reader for path with the converter's resolution in bits.
func NewIIO(path string, bits int) (*IIO, error) {
	if bits < 1 || bits > 16 {
		return nil, fmt.Errorf("adc: unsupported resolution %d bits", bits)
	}
	r := &IIO{path: path, bits: uint(bits), read: os.ReadFile}
	if _, err := r.Read(); err != nil {
		return nil, err
	}
	return r, nil
}

// Read returns one conversion scaled to 16 bits.
func (r *IIO) Read() (uint16, error) {
	b, err := r.read(r.path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", r.path, err)
	}
	raw, err := strconv.ParseUint(string(bytes.TrimSpace(b)), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", r.path, err)
	}
	return scale(uint32(raw), r.bits), nil
}
