package audit

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriterAppend(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)
	fixed := time.Date(2025, 2, 18, 10, 30, 0, 0, time.UTC)
	writer.now = func() time.Time { return fixed }

	if err := writer.Append(Event{Action: "approve", Request: "projects/123/approvalRequests/req-1", Result: "ok"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Append(Event{
		Action:    "dismiss",
		Request:   "projects/123/approvalRequests/req-2",
		Result:    "error",
		ErrorKind: "permission",
		Error:     "dismiss failed: denied",
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("open trail: %v", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		events = append(events, event)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Time.Equal(fixed) {
		t.Fatalf("zero time not stamped, got %v", events[0].Time)
	}
	if events[1].ErrorKind != "permission" || events[1].Error == "" {
		t.Fatalf("error fields not preserved: %+v", events[1])
	}
}

func TestWriterAppend_KeepsExplicitTime(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)

	explicit := time.Date(2024, 12, 1, 8, 0, 0, 0, time.UTC)
	if err := writer.Append(Event{Time: explicit, Action: "revoke"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "audit.jsonl"))
	if err != nil {
		t.Fatalf("read trail: %v", err)
	}
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !event.Time.Equal(explicit) {
		t.Fatalf("explicit time overwritten: %v", event.Time)
	}
}
