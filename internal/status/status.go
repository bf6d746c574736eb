// Package status provides a thread-safe status tracker for the dog-trainer
// daemon. It is designed to be read by HTTP handlers and MQTT status events.
package status

import (
	"sync"
	"time"

	"github.com/haiml123/dog-app/internal/click"
)

// Counts tallies notable occurrences since startup.
type Counts struct {
	Single   int
	Double   int
	Triple   int
	Bark     int
	Dispense int
	Punish   int
}

// Training is the reinforcement scheduler state for display.
type Training struct {
	Level         uint8
	Successes     uint8
	QuietTargetMs uint32
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs         int64
	DebounceMs     int64
	DoubleWindowMs int64
	TripleWindowMs int64
	MinPulses      int
	MaxPulses      int
	BarkWindowMs   int64
	HeartbeatMs    int64
	Broker         string
	HTTPPort       string
	DBPath         string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Signature     click.Status
	Counts        Counts
	Training      Training
	Backlog       int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the detector signature, event counts, and queue backlog.
// Called from runLoop on every tick.
func (t *Tracker) Update(sig click.Status, counts Counts, backlog int) {
	t.mu.Lock()
	t.snap.Signature = sig
	t.snap.Counts = counts
	t.snap.Backlog = backlog
	t.mu.Unlock()
}

// UpdateTraining sets the reinforcement scheduler state.
func (t *Tracker) UpdateTraining(tr Training) {
	t.mu.Lock()
	t.snap.Training = tr
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetConfig replaces the displayed config, used after runtime commands.
func (t *Tracker) SetConfig(cfg Config) {
	t.mu.Lock()
	t.snap.Config = cfg
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
