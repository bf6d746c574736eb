package feeder

import "time"

// FakeDispenser records dispense runs for test assertions.
type FakeDispenser struct {
	// Runs contains the durations of all dispense calls.
	Runs []time.Duration

	// DispenseError, if set, will be returned by Dispense.
	DispenseError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDispenser creates a FakeDispenser.
func NewFakeDispenser() *FakeDispenser {
	return &FakeDispenser{}
}

// Dispense records the run.
func (f *FakeDispenser) Dispense(d time.Duration) error {
	if f.DispenseError != nil {
		return f.DispenseError
	}
	f.Runs = append(f.Runs, d)
	return nil
}

// Close marks the dispenser as closed.
func (f *FakeDispenser) Close() error {
	f.Closed = true
	return nil
}
