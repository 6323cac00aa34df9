package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const callMetricsFileName = "call_metrics.json"

// Snapshot contains aggregated API call metrics, keyed by operation
// (list, approve, dismiss, revoke).
type Snapshot struct {
	UpdatedAt time.Time            `json:"updated_at"`
	Calls     map[string]CallStats `json:"calls"`
}

// CallStats tracks execution metrics for one API operation.
type CallStats struct {
	Total          int64 `json:"total"`
	Errors         int64 `json:"errors"`
	TotalLatencyMs int64 `json:"total_latency_ms"`
	MaxLatencyMs   int64 `json:"max_latency_ms"`
	LastLatencyMs  int64 `json:"last_latency_ms"`
}

// ErrorRatio returns errors/total in [0,1].
func (c CallStats) ErrorRatio() float64 {
	if c.Total <= 0 {
		return 0
	}
	return float64(c.Errors) / float64(c.Total)
}

// AvgLatencyMs returns average latency in milliseconds.
func (c CallStats) AvgLatencyMs() float64 {
	if c.Total <= 0 {
		return 0
	}
	return float64(c.TotalLatencyMs) / float64(c.Total)
}

// HasData reports whether any calls were recorded.
func (s Snapshot) HasData() bool {
	for _, stats := range s.Calls {
		if stats.Total > 0 {
			return true
		}
	}
	return false
}

// Operations returns the recorded operation names in stable order.
func (s Snapshot) Operations() []string {
	ops := make([]string, 0, len(s.Calls))
	for op := range s.Calls {
		ops = append(ops, op)
	}
	sort.Strings(ops)
	return ops
}

// Recorder records and persists API call metrics.
type Recorder struct {
	path string

	mu     sync.Mutex
	loaded bool
	snap   Snapshot
}

// NewRecorder creates a metrics recorder rooted at <configDir>/call_metrics.json.
func NewRecorder(configDir string) *Recorder {
	return &Recorder{path: callMetricsPath(configDir)}
}

// Observe updates metrics for one API call and persists the snapshot.
func (r *Recorder) Observe(operation string, duration time.Duration, failed bool) {
	if r == nil {
		return
	}

	latencyMs := duration.Milliseconds()
	if latencyMs < 0 {
		latencyMs = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.loadLocked()

	stats := r.snap.Calls[operation]
	stats.Total++
	stats.TotalLatencyMs += latencyMs
	stats.LastLatencyMs = latencyMs
	if latencyMs > stats.MaxLatencyMs {
		stats.MaxLatencyMs = latencyMs
	}
	if failed {
		stats.Errors++
	}
	r.snap.Calls[operation] = stats
	r.snap.UpdatedAt = time.Now().UTC()

	_ = persistSnapshot(r.path, r.snap)
}

// Snapshot returns the current snapshot, loading persisted data on first use.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked()
	return r.snap
}

// ReadSnapshot reads the persisted snapshot from the config dir. If no file
// exists yet, it returns a zero-value snapshot and nil error.
func ReadSnapshot(configDir string) (Snapshot, error) {
	path := callMetricsPath(configDir)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{Calls: map[string]CallStats{}}, nil
		}
		return Snapshot{}, fmt.Errorf("read call metrics: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode call metrics: %w", err)
	}
	if snap.Calls == nil {
		snap.Calls = map[string]CallStats{}
	}
	return snap, nil
}

func (r *Recorder) loadLocked() {
	if r.loaded {
		return
	}
	r.loaded = true
	snap, err := ReadSnapshot(filepath.Dir(r.path))
	if err != nil {
		snap = Snapshot{Calls: map[string]CallStats{}}
	}
	r.snap = snap
}

func callMetricsPath(configDir string) string {
	return filepath.Join(configDir, callMetricsFileName)
}

func persistSnapshot(path string, snapshot Snapshot) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create call metrics dir: %w", err)
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode call metrics: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, payload, 0o644); err != nil {
		return fmt.Errorf("write call metrics temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename call metrics file: %w", err)
	}
	return nil
}
