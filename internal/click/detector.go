package click

import "github.com/haiml123/dog-app/internal/rf"

// Detector orchestrates pulse decoding, signature learning and click
// classification over one RF receive source. It owns exactly one Signature
// and one set of click state; both are mutated only inside Poll, so a single
// control-loop goroutine needs no locking.
type Detector struct {
	cfg     Config
	src     rf.Source
	decoder Decoder
	sig     Signature
	fsm     classifier
	handler Handler
	counts  EventCounts
}

// Status is a point-in-time view of the learned signature.
type Status struct {
	Learned     bool
	MinPulses   int
	MaxPulses   int
	AvgPulses   int
	SampleCount int
}

// NewDetector creates a detector reading from src with the given thresholds.
func NewDetector(src rf.Source, cfg Config) *Detector {
	d := &Detector{cfg: cfg, src: src}
	d.decoder = Decoder{src: src, cfg: &d.cfg}
	d.fsm = classifier{cfg: &d.cfg}
	return d
}

// SetHandler registers the click notification receiver. Events are delivered
// synchronously inside Poll, before it returns.
func (d *Detector) SetHandler(h Handler) {
	d.handler = h
}

// Poll runs one control-loop iteration: drain the receive queue, learn or
// classify the burst, and resolve pending click timeouts. now is the
// caller's monotonic millisecond clock, read once per poll.
func (d *Detector) Poll(now Millis) []Event {
	var events []Event

	if pulses := d.decoder.Decode(); pulses >= d.cfg.MinPulses {
		if !d.sig.Learned() {
			// Still calibrating; bursts only contribute to learning.
			d.sig.Ingest(pulses)
		} else if d.sig.Matches(pulses) {
			kind, accepted := d.fsm.press(now)
			if accepted {
				// Calibration continues after learning; suppressed
				// presses contribute nothing.
				d.sig.Ingest(pulses)
			}
			if kind != "" {
				events = append(events, d.deliver(kind, now))
			}
		}
	}

	if kind := d.fsm.tick(now); kind != "" {
		events = append(events, d.deliver(kind, now))
	}

	return events
}

func (d *Detector) deliver(kind Kind, now Millis) Event {
	switch kind {
	case KindSingle:
		d.counts.Single++
		if d.handler != nil {
			d.handler.OnSingleClick()
		}
	case KindDouble:
		d.counts.Double++
		if d.handler != nil {
			d.handler.OnDoubleClick()
		}
	case KindTriple:
		d.counts.Triple++
		if d.handler != nil {
			d.handler.OnTripleClick()
		}
	}
	return Event{At: now, Kind: kind}
}

// Learned reports whether the button signature has been established.
func (d *Detector) Learned() bool {
	return d.sig.Learned()
}

// Status returns the current signature profile.
func (d *Detector) Status() Status {
	return Status{
		Learned:     d.sig.Learned(),
		MinPulses:   d.sig.MinPulses,
		MaxPulses:   d.sig.MaxPulses,
		AvgPulses:   d.sig.AvgPulses,
		SampleCount: d.sig.SampleCount,
	}
}

// Backlog reports the receive queue depth. Informational only.
func (d *Detector) Backlog() int {
	return d.src.Backlog()
}

// Counts returns totals of emitted clicks since startup.
func (d *Detector) Counts() EventCounts {
	return d.counts
}

// Reset clears the learned signature and all transient click state,
// returning the detector to the unlearned, idle condition.
func (d *Detector) Reset() {
	d.sig.Reset()
	d.fsm.reset()
}

// Config returns the current thresholds.
func (d *Detector) Config() Config {
	return d.cfg
}

// SetDoubleClickWindow sets how long a second click pairs with the first.
func (d *Detector) SetDoubleClickWindow(ms uint32) {
	d.cfg.DoubleClickWindowMs = ms
}

// SetTripleClickWindow sets the triple window, which is also the timeout
// that finalizes pending single/double sequences.
func (d *Detector) SetTripleClickWindow(ms uint32) {
	d.cfg.TripleClickWindowMs = ms
}

// SetDebounce sets the minimum spacing between accepted presses.
func (d *Detector) SetDebounce(ms uint32) {
	d.cfg.DebounceMs = ms
}

// SetMinPulses sets the noise floor for burst lengths.
func (d *Detector) SetMinPulses(n int) {
	d.cfg.MinPulses = n
}

// SetMaxPulses sets the saturation cap for burst lengths.
func (d *Detector) SetMaxPulses(n int) {
	d.cfg.MaxPulses = n
}
