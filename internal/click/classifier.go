package click

// echoSuppressMs is the fixed quiet interval after an emitted event during
// which further presses are discarded. The RF relay tends to echo the
// transmission right after a click resolves; without this the echo would be
// recounted as a fresh press.
const echoSuppressMs uint32 = 500

type state uint8

const (
	stateIdle state = iota
	stateAwaitingSecond
	stateAwaitingThird
)

// classifier disambiguates a stream of validated presses into single, double
// and triple clicks. A triple resolves immediately; singles and doubles
// finalize once TripleClickWindowMs elapses with no further press.
type classifier struct {
	cfg *Config

	state         state
	pendingCount  int
	firstClickAt  Millis
	secondClickAt Millis
	lastPressAt   Millis
	lastEventAt   Millis

	// pressSeen/eventSeen keep the zero-valued timestamps above from
	// suppressing presses near the start of time.
	pressSeen bool
	eventSeen bool
}

// press feeds one validated press. It returns the kind emitted ("" if none)
// and whether the press was accepted. A press discarded by echo suppression
// or debounce must not count toward learning or click state.
func (c *classifier) press(now Millis) (Kind, bool) {
	if c.eventSeen && since(now, c.lastEventAt) < echoSuppressMs {
		return "", false
	}
	if c.pressSeen && since(now, c.lastPressAt) < c.cfg.DebounceMs {
		return "", false
	}

	c.lastPressAt = now
	c.pressSeen = true
	c.pendingCount++

	switch c.pendingCount {
	case 1:
		c.firstClickAt = now
		c.state = stateAwaitingSecond

	case 2:
		if since(now, c.firstClickAt) <= c.cfg.DoubleClickWindowMs {
			c.secondClickAt = now
			c.state = stateAwaitingThird
		} else {
			// Too late to pair; this press starts a fresh sequence.
			c.restartAt(now)
		}

	case 3:
		if since(now, c.secondClickAt) <= c.cfg.TripleClickWindowMs {
			c.emit(now)
			return KindTriple, true
		}
		c.restartAt(now)
	}

	return "", true
}

// tick finalizes pending sequences whose window has elapsed. Call once per
// poll regardless of whether a press arrived.
func (c *classifier) tick(now Millis) Kind {
	switch c.state {
	case stateAwaitingSecond:
		if since(now, c.firstClickAt) >= c.cfg.TripleClickWindowMs {
			c.emit(now)
			return KindSingle
		}
	case stateAwaitingThird:
		if since(now, c.secondClickAt) >= c.cfg.TripleClickWindowMs {
			c.emit(now)
			return KindDouble
		}
	}
	return ""
}

// restartAt treats the current press as the first click of a new sequence.
func (c *classifier) restartAt(now Millis) {
	c.pendingCount = 1
	c.firstClickAt = now
	c.state = stateAwaitingSecond
}

// emit records the event time (arming echo suppression) and returns to idle.
func (c *classifier) emit(now Millis) {
	c.lastEventAt = now
	c.eventSeen = true
	c.state = stateIdle
	c.pendingCount = 0
}

// reset clears all transient click state.
func (c *classifier) reset() {
	cfg := c.cfg
	*c = classifier{cfg: cfg}
}
