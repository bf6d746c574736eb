package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatPayload(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      "DOUBLE_CLICK",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Trainer.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Trainer.Timestamp)
	}
	if parsed.Trainer.Event != "DOUBLE_CLICK" {
		t.Errorf("unexpected event: %s", parsed.Trainer.Event)
	}
}

func TestFormatPayloadOmitsZeroDuration(t *testing.T) {
	event := Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      "SINGLE_CLICK",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"trainer":{"timestamp":"2026-02-02T22:18:12Z","event":"SINGLE_CLICK"}}`
	if string(payload) != want {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, want)
	}
}

func TestFormatPayloadDispenseDuration(t *testing.T) {
	event := Event{
		Timestamp:  time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:       "DISPENSE",
		DurationMs: 1500,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"trainer":{"timestamp":"2026-02-02T22:18:12Z","event":"DISPENSE","duration_ms":1500}}`
	if string(payload) != want {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, want)
	}
}

func TestFormatPayloadConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	event := Event{
		Timestamp: time.Date(2026, 2, 2, 23, 18, 12, 0, loc),
		Type:      "BARK",
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Trainer.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Trainer.Timestamp)
	}
}

func TestFormatSystemPayloadStartup(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"STARTUP"}}`
	if string(payload) != want {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, want)
	}
}

func TestFormatSystemPayloadShutdownWithReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"system":{"timestamp":"2026-02-02T22:18:12Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(payload) != want {
		t.Errorf("payload mismatch:\ngot:  %s\nwant: %s", payload, want)
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"system":{"custom":true}}`)
	event := SystemEvent{
		Timestamp:  time.Now(),
		Event:      "HEARTBEAT",
		RawPayload: raw,
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload should pass through unchanged, got %s", payload)
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"command":"set_level","value":2}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Command != CmdSetLevel {
		t.Errorf("unexpected command: %s", cmd.Command)
	}
	if cmd.Value != 2 {
		t.Errorf("unexpected value: %d", cmd.Value)
	}
}

func TestParseCommandNoValue(t *testing.T) {
	cmd, err := ParseCommand([]byte(`{"command":"reset"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmd.Command != CmdReset {
		t.Errorf("unexpected command: %s", cmd.Command)
	}
	if cmd.Value != 0 {
		t.Errorf("expected zero value, got %d", cmd.Value)
	}
}

func TestParseCommandMalformed(t *testing.T) {
	if _, err := ParseCommand([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestParseCommandMissingName(t *testing.T) {
	if _, err := ParseCommand([]byte(`{"value":5}`)); err == nil {
		t.Error("expected error for missing command field")
	}
}

func TestParseBarkReport(t *testing.T) {
	report := ParseBarkReport([]byte(`{"confidence":0.92}`))
	if report.Confidence != 0.92 {
		t.Errorf("unexpected confidence: %v", report.Confidence)
	}
}

func TestParseBarkReportEmptyPayload(t *testing.T) {
	report := ParseBarkReport(nil)
	if report.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", report.Confidence)
	}
}

func TestParseBarkReportMalformedStillCounts(t *testing.T) {
	report := ParseBarkReport([]byte(`woof`))
	if report.Confidence != 0 {
		t.Errorf("expected zero confidence, got %v", report.Confidence)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()

	event := Event{
		Timestamp: time.Now(),
		Type:      "SINGLE_CLICK",
	}

	if err := f.Publish(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != "SINGLE_CLICK" {
		t.Errorf("unexpected event type: %s", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker unavailable")

	err := f.Publish(Event{Timestamp: time.Now(), Type: "SINGLE_CLICK"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.Events) != 0 {
		t.Errorf("failed publish should not record the event, got %d", len(f.Events))
	}
}

func TestFakePublisherSystemEvents(t *testing.T) {
	f := NewFakePublisher()

	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "SHUTDOWN",
		Reason:    "SIGINT",
		Retained:  true,
	}
	if err := f.PublishSystem(event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.SystemEvents) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(f.SystemEvents))
	}
	if !f.SystemEvents[0].Retained {
		t.Error("retained flag should be preserved")
	}
	if len(f.SystemPayloads) != 1 {
		t.Fatalf("expected 1 system payload, got %d", len(f.SystemPayloads))
	}
}

func TestFakePublisherSystemError(t *testing.T) {
	f := NewFakePublisher()
	f.PublishSystemError = errors.New("broker unavailable")

	err := f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "HEARTBEAT"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.SystemEvents) != 0 {
		t.Errorf("failed publish should not record the event, got %d", len(f.SystemEvents))
	}
}

func TestFakePublisherClose(t *testing.T) {
	f := NewFakePublisher()
	if err := f.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed to be true")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(Event{Timestamp: time.Now(), Type: "SINGLE_CLICK"})
	f.PublishSystem(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"})
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.Payloads) != 0 {
		t.Error("reset should clear recorded events")
	}
	if len(f.SystemEvents) != 0 || len(f.SystemPayloads) != 0 {
		t.Error("reset should clear recorded system events")
	}
	if f.Connected {
		t.Error("reset should clear the connected flag")
	}
}
