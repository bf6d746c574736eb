package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string        `json:"event,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	Learned       bool          `json:"learned"`
	Signature     SignatureJSON `json:"signature"`
	UptimeSeconds int64         `json:"uptime_seconds"`
	StartTime     string        `json:"start_time"`
	Timestamp     string        `json:"timestamp"`
	Backlog       int           `json:"backlog"`
	MQTT          MQTTStatus    `json:"mqtt"`
	Counts        CountsJSON    `json:"event_counts"`
	Training      TrainingJSON  `json:"training"`
	Config        ConfigJSON    `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// SignatureJSON is the JSON representation of the learned button signature.
type SignatureJSON struct {
	MinPulses   int `json:"min_pulses"`
	MaxPulses   int `json:"max_pulses"`
	AvgPulses   int `json:"avg_pulses"`
	SampleCount int `json:"sample_count"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Single   int `json:"single_click"`
	Double   int `json:"double_click"`
	Triple   int `json:"triple_click"`
	Bark     int `json:"bark"`
	Dispense int `json:"dispense"`
	Punish   int `json:"punish"`
}

// TrainingJSON is the JSON representation of the reinforcement state.
type TrainingJSON struct {
	Level         uint8  `json:"level"`
	Successes     uint8  `json:"successes"`
	QuietTargetMs uint32 `json:"quiet_target_ms"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs         int64  `json:"poll_ms"`
	DebounceMs     int64  `json:"debounce_ms"`
	DoubleWindowMs int64  `json:"double_window_ms"`
	TripleWindowMs int64  `json:"triple_window_ms"`
	MinPulses      int    `json:"min_pulses"`
	MaxPulses      int    `json:"max_pulses"`
	BarkWindowMs   int64  `json:"bark_window_ms"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPPort       string `json:"http_port"`
	DBPath         string `json:"db_path"`
}

func buildInner(snap Snapshot) StatusInner {
	return StatusInner{
		Learned: snap.Signature.Learned,
		Signature: SignatureJSON{
			MinPulses:   snap.Signature.MinPulses,
			MaxPulses:   snap.Signature.MaxPulses,
			AvgPulses:   snap.Signature.AvgPulses,
			SampleCount: snap.Signature.SampleCount,
		},
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Backlog:       snap.Backlog,
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Single:   snap.Counts.Single,
			Double:   snap.Counts.Double,
			Triple:   snap.Counts.Triple,
			Bark:     snap.Counts.Bark,
			Dispense: snap.Counts.Dispense,
			Punish:   snap.Counts.Punish,
		},
		Training: TrainingJSON{
			Level:         snap.Training.Level,
			Successes:     snap.Training.Successes,
			QuietTargetMs: snap.Training.QuietTargetMs,
		},
		Config: ConfigJSON{
			PollMs:         snap.Config.PollMs,
			DebounceMs:     snap.Config.DebounceMs,
			DoubleWindowMs: snap.Config.DoubleWindowMs,
			TripleWindowMs: snap.Config.TripleWindowMs,
			MinPulses:      snap.Config.MinPulses,
			MaxPulses:      snap.Config.MaxPulses,
			BarkWindowMs:   snap.Config.BarkWindowMs,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			HTTPPort:       snap.Config.HTTPPort,
			DBPath:         snap.Config.DBPath,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
