package metrics

import (
	"testing"
	"time"
)

func TestRecorderObserve(t *testing.T) {
	dir := t.TempDir()
	recorder := NewRecorder(dir)

	recorder.Observe("list", 120*time.Millisecond, false)
	recorder.Observe("list", 40*time.Millisecond, true)
	recorder.Observe("approve", 10*time.Millisecond, false)

	snap := recorder.Snapshot()
	list := snap.Calls["list"]
	if list.Total != 2 || list.Errors != 1 {
		t.Fatalf("unexpected list stats: %+v", list)
	}
	if list.MaxLatencyMs != 120 || list.LastLatencyMs != 40 || list.TotalLatencyMs != 160 {
		t.Fatalf("unexpected list latencies: %+v", list)
	}
	if got := list.ErrorRatio(); got != 0.5 {
		t.Fatalf("unexpected error ratio: %v", got)
	}
	if got := list.AvgLatencyMs(); got != 80 {
		t.Fatalf("unexpected average latency: %v", got)
	}

	ops := snap.Operations()
	if len(ops) != 2 || ops[0] != "approve" || ops[1] != "list" {
		t.Fatalf("unexpected operations order: %v", ops)
	}
}

func TestRecorderPersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	NewRecorder(dir).Observe("approve", 5*time.Millisecond, false)
	NewRecorder(dir).Observe("approve", 7*time.Millisecond, true)

	snap, err := ReadSnapshot(dir)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	stats := snap.Calls["approve"]
	if stats.Total != 2 || stats.Errors != 1 {
		t.Fatalf("persisted stats lost: %+v", stats)
	}
	if snap.UpdatedAt.IsZero() {
		t.Fatal("expected updated_at to be stamped")
	}
}

func TestReadSnapshot_NoFile(t *testing.T) {
	snap, err := ReadSnapshot(t.TempDir())
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.HasData() {
		t.Fatal("expected empty snapshot")
	}
	if snap.Calls == nil {
		t.Fatal("expected non-nil calls map")
	}
}
