// Package rf provides access to the raw RF receive queue with hardware abstraction.
// The real implementation collects edge events from a Linux GPIO line connected
// to the 433MHz receiver's data pin. The fake implementation allows testing
// without hardware.
package rf

import "time"

// Pulse is one mark/space pair within a received frame. A zero duration means
// that half of the pair was absent (typically the trailing space of a frame).
type Pulse struct {
	Mark  time.Duration
	Space time.Duration
}

// Frame is one queued receive entry: the pulse train of a single transmission,
// delimited on the line by idle gaps.
type Frame struct {
	Pulses []Pulse
}

// Source is the receive-buffer abstraction the click detector drains each poll.
type Source interface {
	// Fetch returns the next queued frame, oldest first.
	// ok is false when the queue is empty. Fetch never blocks.
	Fetch() (Frame, bool)

	// Backlog returns the number of frames currently queued. Informational.
	Backlog() int

	// Close releases receiver resources.
	Close() error
}

// DefaultPin is the BCM pin the receiver data line is wired to.
const DefaultPin = 27
