package click

import "github.com/haiml123/dog-app/internal/rf"

// maxDrainPerPoll bounds how many queued frames one Decode call consumes,
// so an RF noise flood cannot make a poll take unbounded time.
const maxDrainPerPoll = 8

// Decoder extracts validated burst lengths from the raw receive queue.
// Interference produces many short spurious frames per legitimate press;
// only the most recent plausible-length burst represents the transmission.
type Decoder struct {
	src rf.Source
	cfg *Config
}

// Decode drains up to maxDrainPerPoll frames and returns the pulse count of
// the last burst at least MinPulses long. Counting saturates at MaxPulses.
// Returns 0 when no valid burst arrived this poll.
func (d *Decoder) Decode() int {
	valid := 0
	for i := 0; i < maxDrainPerPoll; i++ {
		frame, ok := d.src.Fetch()
		if !ok {
			break
		}
		if pulses := d.countPulses(frame); pulses >= d.cfg.MinPulses {
			valid = pulses
		}
	}
	return valid
}

// countPulses derives a burst length from one frame: every nonzero mark and
// every nonzero space counts as one pulse, capped at MaxPulses.
func (d *Decoder) countPulses(frame rf.Frame) int {
	n := 0
	for _, p := range frame.Pulses {
		if n >= d.cfg.MaxPulses {
			break
		}
		if p.Mark > 0 {
			n++
		}
		if n >= d.cfg.MaxPulses {
			break
		}
		if p.Space > 0 {
			n++
		}
	}
	return n
}
