package click

import (
	"testing"
	"time"

	"github.com/haiml123/dog-app/internal/rf"
)

func newTestDecoder(src rf.Source) (*Decoder, *Config) {
	cfg := DefaultConfig()
	return &Decoder{src: src, cfg: &cfg}, &cfg
}

func TestDecodeEmptyQueue(t *testing.T) {
	d, _ := newTestDecoder(rf.NewFakeSource())
	if got := d.Decode(); got != 0 {
		t.Errorf("expected 0 for empty queue, got %d", got)
	}
}

func TestDecodeKeepsLastValidBurst(t *testing.T) {
	src := rf.NewFakeSource(
		rf.FrameOf(100),
		rf.FrameOf(5),   // noise after the real burst
		rf.FrameOf(180), // most recent plausible burst wins
	)
	d, _ := newTestDecoder(src)

	if got := d.Decode(); got != 180 {
		t.Errorf("expected last valid burst 180, got %d", got)
	}
}

func TestDecodeDiscardsNoise(t *testing.T) {
	src := rf.NewFakeSource(
		rf.FrameOf(3),
		rf.FrameOf(10),
		rf.FrameOf(49), // just below the default floor of 50
	)
	d, _ := newTestDecoder(src)

	if got := d.Decode(); got != 0 {
		t.Errorf("expected 0 when all bursts are noise, got %d", got)
	}
}

func TestDecodeSaturatesAtMaxPulses(t *testing.T) {
	src := rf.NewFakeSource(rf.FrameOf(1000))
	d, cfg := newTestDecoder(src)

	if got := d.Decode(); got != cfg.MaxPulses {
		t.Errorf("expected saturation at %d, got %d", cfg.MaxPulses, got)
	}
}

func TestDecodeDrainIsBounded(t *testing.T) {
	// Flood the queue with more frames than one poll may consume.
	frames := make([]rf.Frame, 0, maxDrainPerPoll+4)
	for i := 0; i < maxDrainPerPoll+4; i++ {
		frames = append(frames, rf.FrameOf(100+i))
	}
	src := rf.NewFakeSource(frames...)
	d, _ := newTestDecoder(src)

	if got := d.Decode(); got != 100+maxDrainPerPoll-1 {
		t.Errorf("expected last burst within drain bound (%d), got %d", 100+maxDrainPerPoll-1, got)
	}
	if src.Backlog() != 4 {
		t.Errorf("expected 4 frames left queued, got %d", src.Backlog())
	}

	// The next poll picks up where the flood left off.
	if got := d.Decode(); got != 100+maxDrainPerPoll+3 {
		t.Errorf("expected remaining frames drained next poll, got %d", got)
	}
}

func TestCountPulsesMarksAndSpaces(t *testing.T) {
	d, _ := newTestDecoder(rf.NewFakeSource())

	frame := rf.Frame{Pulses: []rf.Pulse{
		{Mark: time.Millisecond, Space: time.Millisecond},
		{Mark: time.Millisecond, Space: 0}, // trailing space absent
	}}
	if got := d.countPulses(frame); got != 3 {
		t.Errorf("expected 3 pulses (2 marks + 1 space), got %d", got)
	}
}

func TestFrameOfRoundTrip(t *testing.T) {
	d, _ := newTestDecoder(rf.NewFakeSource())
	for _, n := range []int{1, 2, 49, 50, 99, 100, 399} {
		if got := d.countPulses(rf.FrameOf(n)); got != n {
			t.Errorf("FrameOf(%d): counted %d", n, got)
		}
	}
}
