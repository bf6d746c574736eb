package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/haiml123/dog-app/internal/click"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PollMs: 10, DebounceMs: 50, Broker: "tcp://localhost:1883", HTTPPort: ":80"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.PollMs != 10 {
		t.Errorf("Config.PollMs: got %d, want 10", snap.Config.PollMs)
	}
	if snap.Config.HTTPPort != ":80" {
		t.Errorf("Config.HTTPPort: got %q, want %q", snap.Config.HTTPPort, ":80")
	}
	if snap.Signature.Learned {
		t.Error("expected Learned=false initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	sig := click.Status{Learned: true, MinPulses: 100, MaxPulses: 110, AvgPulses: 105, SampleCount: 3}
	tr.Update(sig, Counts{Single: 3, Punish: 1}, 2)

	snap := tr.Snapshot()
	if !snap.Signature.Learned {
		t.Error("expected Learned=true")
	}
	if snap.Signature.AvgPulses != 105 {
		t.Errorf("Signature.AvgPulses: got %d, want 105", snap.Signature.AvgPulses)
	}
	if snap.Counts.Single != 3 {
		t.Errorf("Counts.Single: got %d, want 3", snap.Counts.Single)
	}
	if snap.Counts.Punish != 1 {
		t.Errorf("Counts.Punish: got %d, want 1", snap.Counts.Punish)
	}
	if snap.Backlog != 2 {
		t.Errorf("Backlog: got %d, want 2", snap.Backlog)
	}
}

func TestUpdateTraining(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.UpdateTraining(Training{Level: 2, Successes: 3, QuietTargetMs: 30000})

	snap := tr.Snapshot()
	if snap.Training.Level != 2 {
		t.Errorf("Training.Level: got %d, want 2", snap.Training.Level)
	}
	if snap.Training.Successes != 3 {
		t.Errorf("Training.Successes: got %d, want 3", snap.Training.Successes)
	}
	if snap.Training.QuietTargetMs != 30000 {
		t.Errorf("Training.QuietTargetMs: got %d, want 30000", snap.Training.QuietTargetMs)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSetConfig(t *testing.T) {
	tr := NewTracker(time.Now(), Config{DoubleWindowMs: 600})

	cfg := tr.Snapshot().Config
	cfg.DoubleWindowMs = 800
	tr.SetConfig(cfg)

	if got := tr.Snapshot().Config.DoubleWindowMs; got != 800 {
		t.Errorf("Config.DoubleWindowMs: got %d, want 800", got)
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(click.Status{Learned: true, AvgPulses: 105}, Counts{Single: 1}, 0)

	snap1 := tr.Snapshot()

	tr.Update(click.Status{Learned: true, AvgPulses: 108}, Counts{Single: 2}, 0)

	// snap1 should still reflect old state
	if snap1.Signature.AvgPulses != 105 {
		t.Error("snapshot should be a copy; Signature was modified")
	}
	if snap1.Counts.Single != 1 {
		t.Error("snapshot should be a copy; Counts were modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Signature:     click.Status{Learned: true, MinPulses: 100, MaxPulses: 110, AvgPulses: 105, SampleCount: 4},
		Counts:        Counts{Single: 5, Double: 2, Triple: 1, Bark: 7, Dispense: 3, Punish: 2},
		Training:      Training{Level: 1, Successes: 2, QuietTargetMs: 20000},
		Backlog:       1,
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, DebounceMs: 50, DoubleWindowMs: 600, TripleWindowMs: 900, HeartbeatMs: 900000, Broker: "tcp://localhost:1883", HTTPPort: ":80"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if !parsed.Status.Learned {
		t.Error("expected learned=true")
	}
	if parsed.Status.Signature.AvgPulses != 105 {
		t.Errorf("Signature.AvgPulses: got %d, want 105", parsed.Status.Signature.AvgPulses)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if parsed.Status.MQTT.Connected != true {
		t.Error("expected MQTT.Connected=true")
	}
	if parsed.Status.Counts.Bark != 7 {
		t.Errorf("Counts.Bark: got %d, want 7", parsed.Status.Counts.Bark)
	}
	if parsed.Status.Training.Level != 1 {
		t.Errorf("Training.Level: got %d, want 1", parsed.Status.Training.Level)
	}
	if parsed.Status.Config.TripleWindowMs != 900 {
		t.Errorf("Config.TripleWindowMs: got %d, want 900", parsed.Status.Config.TripleWindowMs)
	}
	// Event and Reason should be omitted
	if parsed.Status.Event != "" {
		t.Errorf("expected empty Event for web format, got %q", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("expected empty Reason for web format, got %q", parsed.Status.Reason)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Signature:     click.Status{Learned: true, SampleCount: 3},
		Counts:        Counts{Single: 3},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config:        Config{PollMs: 10, DebounceMs: 50, Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "HEARTBEAT", "")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "HEARTBEAT" {
		t.Errorf("Event: got %q, want HEARTBEAT", parsed.Status.Event)
	}
	if parsed.Status.Reason != "" {
		t.Errorf("Reason: got %q, want empty", parsed.Status.Reason)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
}

func TestFormatStatusEventShutdown(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(30 * time.Minute),
		Config:    Config{Broker: "tcp://localhost:1883"},
	}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	data := FormatStatusEvent(snap, "STARTUP", "")

	// Verify "reason" is not in the raw JSON output
	var raw map[string]interface{}
	json.Unmarshal(data, &raw)
	status := raw["status"].(map[string]interface{})
	if _, exists := status["reason"]; exists {
		t.Error("reason should be omitted when empty")
	}
	if status["event"] != "STARTUP" {
		t.Errorf("event: got %v, want STARTUP", status["event"])
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(click.Status{Learned: true}, Counts{Single: i}, i%4)
			tr.SetMQTTConnected(i%2 == 0)
			tr.UpdateTraining(Training{Level: uint8(i % 5)})
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
