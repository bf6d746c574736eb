//go:build linux

package feeder

import (
	"fmt"
	"sync"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealDispenser drives the feeder through a GPIO output line.
type RealDispenser struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line

	mu    sync.Mutex
	timer *time.Timer
}

// NewRealDispenser opens the feeder pin as an output, initially off.
func NewRealDispenser(pin int) (*RealDispenser, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request feeder pin %d: %w", pin, err)
	}

	return &RealDispenser{chip: chip, line: line}, nil
}

// Dispense energizes the motor for d. A new run extends any run in progress.
func (r *RealDispenser) Dispense(d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.line.SetValue(1); err != nil {
		return fmt.Errorf("feeder on: %w", err)
	}

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.line.SetValue(0)
	})
	return nil
}

// Close stops any run in progress and releases GPIO resources.
func (r *RealDispenser) Close() error {
	r.mu.Lock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	var errs []error
	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("feeder off: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close feeder line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
