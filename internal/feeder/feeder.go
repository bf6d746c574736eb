// Package feeder drives the treat dispenser motor with hardware abstraction.
// The real implementation toggles a Linux GPIO output line; the fake
// implementation records runs for tests.
package feeder

import "time"

// Dispenser runs the feeder motor for a bounded duration.
type Dispenser interface {
	// Dispense energizes the motor for d and returns once the run is
	// scheduled. The line is released asynchronously when d elapses.
	Dispense(d time.Duration) error

	// Close de-energizes the motor and releases resources.
	Close() error
}

// DefaultPin is the BCM pin wired to the feeder motor driver.
const DefaultPin = 17
