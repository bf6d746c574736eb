package rf

import "time"

// FakeSource is a test double that serves scripted frames.
type FakeSource struct {
	// Frames contains the scripted receive queue. Each Fetch consumes one.
	Frames []Frame

	// index tracks the next frame to serve
	index int

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeSource creates a FakeSource with the given queued frames.
func NewFakeSource(frames ...Frame) *FakeSource {
	return &FakeSource{Frames: frames}
}

// Fetch returns the next scripted frame, or ok=false once exhausted.
func (f *FakeSource) Fetch() (Frame, bool) {
	if f.index >= len(f.Frames) {
		return Frame{}, false
	}
	frame := f.Frames[f.index]
	f.index++
	return frame, true
}

// Backlog returns the number of unconsumed frames.
func (f *FakeSource) Backlog() int {
	return len(f.Frames) - f.index
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}

// Enqueue appends frames to the scripted queue.
func (f *FakeSource) Enqueue(frames ...Frame) {
	f.Frames = append(f.Frames, frames...)
}

// FrameOf builds a frame whose pulse count (nonzero marks plus nonzero
// spaces) equals n. Useful for scripting bursts of a known length.
func FrameOf(n int) Frame {
	pulses := make([]Pulse, 0, (n+1)/2)
	for i := 0; i < n/2; i++ {
		pulses = append(pulses, Pulse{Mark: time.Millisecond, Space: time.Millisecond})
	}
	if n%2 == 1 {
		pulses = append(pulses, Pulse{Mark: time.Millisecond})
	}
	return Frame{Pulses: pulses}
}
