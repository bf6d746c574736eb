// Package mqtt provides MQTT publishing and remote control with abstraction
// for testing. The device reports click, bark and feeder events and accepts
// runtime configuration commands over the broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic is the MQTT topic for trainer events.
const Topic = "pets/dog-trainer/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "pets/dog-trainer/system"

// TopicCommand is the MQTT topic the device subscribes to for remote control.
const TopicCommand = "pets/dog-trainer/cmd"

// TopicBark is the MQTT topic carrying bark reports from the collar-side
// detector.
const TopicBark = "pets/dog-trainer/bark"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a trainer event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Event is one trainer occurrence to report.
type Event struct {
	Timestamp time.Time
	Type      string // e.g., "SINGLE_CLICK", "TRIPLE_CLICK", "BARK", "PUNISH", "DISPENSE"

	// DurationMs is the feeder run time for DISPENSE events; 0 otherwise.
	DurationMs uint32
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Trainer TrainerPayload `json:"trainer"`
}

// TrainerPayload contains the trainer event details.
type TrainerPayload struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	DurationMs uint32 `json:"duration_ms,omitempty"`
}

// FormatPayload creates the JSON payload for a trainer event.
func FormatPayload(event Event) ([]byte, error) {
	payload := Payload{
		Trainer: TrainerPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      event.Type,
			DurationMs: event.DurationMs,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// Command is a remote control message received on TopicCommand.
type Command struct {
	Command string `json:"command"`
	Value   int64  `json:"value,omitempty"`
}

// Command names accepted on TopicCommand.
const (
	CmdReset           = "reset"             // forget the learned button
	CmdResetTraining   = "reset_training"    // reinforcement back to level 0
	CmdSetLevel        = "set_level"         // force a reinforcement level
	CmdSetDoubleWindow = "set_double_window" // ms
	CmdSetTripleWindow = "set_triple_window" // ms
	CmdSetDebounce     = "set_debounce"      // ms
	CmdSetMinPulses    = "set_min_pulses"
	CmdSetMaxPulses    = "set_max_pulses"
	CmdSetBarkWindow   = "set_bark_window" // ms
)

// ParseCommand decodes a TopicCommand payload.
func ParseCommand(payload []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(payload, &cmd); err != nil {
		return Command{}, fmt.Errorf("parse command: %w", err)
	}
	if cmd.Command == "" {
		return Command{}, fmt.Errorf("parse command: missing command field")
	}
	return cmd, nil
}

// BarkReport is a TopicBark payload from the collar-side bark detector.
// An empty payload counts as one bark.
type BarkReport struct {
	Confidence float64 `json:"confidence,omitempty"`
}

// ParseBarkReport decodes a TopicBark payload. Malformed or empty payloads
// still count as a bark; the confidence just stays zero.
func ParseBarkReport(payload []byte) BarkReport {
	var report BarkReport
	if len(payload) > 0 {
		_ = json.Unmarshal(payload, &report)
	}
	return report
}
