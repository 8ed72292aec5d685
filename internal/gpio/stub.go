//go:build !linux

package gpio

import "errors"

// CdevChip is not available on non-Linux platforms.
type CdevChip struct{}

// NewCdevChip returns an error on non-Linux platforms.
func NewCdevChip(name string) (*CdevChip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Output is not implemented on non-Linux platforms.
func (c *CdevChip) Output(offset int, initial bool) (Output, error) {
	return nil, errors.New("gpio: not supported")
}

// Input is not implemented on non-Linux platforms.
func (c *CdevChip) Input(offset int) (Input, error) {
	return nil, errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (c *CdevChip) Close() error {
	return nil
}
