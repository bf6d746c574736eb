//go:build !linux

package feeder

import (
	"errors"
	"time"
)

// RealDispenser is not available on non-Linux platforms.
type RealDispenser struct{}

// NewRealDispenser returns an error on non-Linux platforms.
func NewRealDispenser(pin int) (*RealDispenser, error) {
	return nil, errors.New("feeder: not supported on this platform (requires Linux)")
}

// Dispense is not implemented on non-Linux platforms.
func (r *RealDispenser) Dispense(d time.Duration) error {
	return errors.New("feeder: not supported")
}

// Close is not implemented on non-Linux platforms.
func (r *RealDispenser) Close() error {
	return nil
}
