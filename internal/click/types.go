// Package click turns raw RF remote transmissions into single, double and
// triple click events for one learned button. This package contains pure
// sequencing logic: no hardware access beyond the injected rf.Source, no
// wall-clock reads. Time is always supplied by the caller as a monotonic
// millisecond value.
package click

// Millis is a monotonic millisecond timestamp. All interval math subtracts
// rather than comparing absolutes so a uint32 rollover cannot corrupt
// timing decisions.
type Millis uint32

// since returns the interval from then to now, tolerating wraparound.
func since(now, then Millis) uint32 {
	return uint32(now - then)
}

// Kind identifies a resolved click event.
type Kind string

const (
	KindSingle Kind = "SINGLE_CLICK"
	KindDouble Kind = "DOUBLE_CLICK"
	KindTriple Kind = "TRIPLE_CLICK"
)

// Event is a resolved click.
type Event struct {
	At   Millis
	Kind Kind
}

// Config holds the runtime-settable thresholds.
type Config struct {
	// MinPulses and MaxPulses bound the plausible burst length. Shorter
	// bursts are the noise floor; longer bursts saturate at the cap.
	MinPulses int
	MaxPulses int

	// DebounceMs is the minimum spacing between accepted presses.
	DebounceMs uint32

	// DoubleClickWindowMs is how long after a first click a second click
	// still pairs with it.
	DoubleClickWindowMs uint32

	// TripleClickWindowMs is how long after a second click a third click
	// still completes a triple. It doubles as the finalization timeout
	// that resolves pending single/double sequences.
	TripleClickWindowMs uint32
}

// DefaultConfig mirrors the shipped remote hardware.
func DefaultConfig() Config {
	return Config{
		MinPulses:           50,
		MaxPulses:           400,
		DebounceMs:          50,
		DoubleClickWindowMs: 600,
		TripleClickWindowMs: 900,
	}
}

// Handler receives click notifications. Calls happen synchronously inside
// Poll, on the control-loop goroutine.
type Handler interface {
	OnSingleClick()
	OnDoubleClick()
	OnTripleClick()
}

// HandlerFuncs adapts plain functions to Handler. Nil funcs are ignored.
type HandlerFuncs struct {
	Single func()
	Double func()
	Triple func()
}

func (h HandlerFuncs) OnSingleClick() {
	if h.Single != nil {
		h.Single()
	}
}

func (h HandlerFuncs) OnDoubleClick() {
	if h.Double != nil {
		h.Double()
	}
}

func (h HandlerFuncs) OnTripleClick() {
	if h.Triple != nil {
		h.Triple()
	}
}

// EventCounts tracks the number of each click kind since startup.
type EventCounts struct {
	Single int
	Double int
	Triple int
}
