package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	auditFileMode = 0644
	auditDirMode  = 0755
)

// Event is one audit record written as a single JSON line. Every attempted
// mutating call produces exactly one event, success or failure.
type Event struct {
	Time      time.Time `json:"time"`
	Action    string    `json:"action"`
	Request   string    `json:"request,omitempty"`
	Result    string    `json:"result,omitempty"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Writer appends audit events to <configDir>/audit.jsonl.
type Writer struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewWriter creates an append-only audit writer rooted at the config dir.
func NewWriter(configDir string) *Writer {
	return &Writer{
		path: filepath.Join(configDir, "audit.jsonl"),
		now:  time.Now,
	}
}

// Append writes one event as one JSONL line. A zero Time is stamped with
// the current time.
func (w *Writer) Append(event Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if event.Time.IsZero() {
		event.Time = w.now().UTC()
	}

	if err := os.MkdirAll(filepath.Dir(w.path), auditDirMode); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, auditFileMode)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := file.Write(encoded); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit file: %w", err)
	}
	return nil
}
