// Package bark rate-limits punishment decisions for external bark reports.
// Bark detection itself happens elsewhere (the collar-side detector reports
// over MQTT); this package only decides whether a given bark may be acted on.
package bark

// Window allows one punish decision per cooldown interval. Barks arriving
// inside the interval are suppressed and counted.
type Window struct {
	windowMs        uint32
	lastPunishMs    uint32
	punished        bool
	suppressedCount int
}

// DefaultWindowMs is the shipped cooldown between punishments.
const DefaultWindowMs uint32 = 5000

// NewWindow creates a Window with the given cooldown in milliseconds.
func NewWindow(windowMs uint32) *Window {
	return &Window{windowMs: windowMs}
}

// ShouldPunish reports whether a bark at nowMs may be punished. nowMs is a
// monotonic millisecond clock; interval math tolerates wraparound.
func (w *Window) ShouldPunish(nowMs uint32) bool {
	if w.punished && nowMs-w.lastPunishMs < w.windowMs {
		w.suppressedCount++
		return false
	}

	w.suppressedCount = 0
	w.lastPunishMs = nowMs
	w.punished = true
	return true
}

// SetWindow updates the cooldown interval.
func (w *Window) SetWindow(ms uint32) {
	w.windowMs = ms
}

// WindowMs returns the current cooldown interval.
func (w *Window) WindowMs() uint32 {
	return w.windowMs
}

// Suppressed returns how many barks were suppressed in the current window.
func (w *Window) Suppressed() int {
	return w.suppressedCount
}

// Reset clears the window so the next bark is punishable immediately.
func (w *Window) Reset() {
	w.lastPunishMs = 0
	w.punished = false
	w.suppressedCount = 0
}
