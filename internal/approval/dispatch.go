package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mkarlsen/accessctl/internal/audit"
	"github.com/mkarlsen/accessctl/internal/metrics"
)

// Remote is the mutating surface of the Access Approval API used by the
// dispatcher. *Client satisfies it; tests substitute fakes.
type Remote interface {
	Approve(ctx context.Context, name string) (Request, error)
	Dismiss(ctx context.Context, name string) (Request, error)
	Revoke(ctx context.Context, name string) (Request, error)
}

// Dispatcher invokes mutating remote calls for approve/dismiss/revoke and
// classifies failures into ActionError. It never mutates shared state: the
// caller refreshes its local record from the returned one. This keeps the
// dispatcher reusable by one-shot commands and the interactive viewer alike.
type Dispatcher struct {
	remote   Remote
	audit    *audit.Writer
	recorder *metrics.Recorder
}

// NewDispatcher creates a dispatcher. audit and recorder may be nil.
func NewDispatcher(remote Remote, auditWriter *audit.Writer, recorder *metrics.Recorder) *Dispatcher {
	return &Dispatcher{remote: remote, audit: auditWriter, recorder: recorder}
}

// Run executes one action against the named request and returns the
// refreshed record. Every failure is an *ActionError.
func (d *Dispatcher) Run(ctx context.Context, kind ActionKind, name string) (Request, error) {
	start := time.Now()
	updated, err := d.call(ctx, kind, name)
	elapsed := time.Since(start)

	if err != nil {
		var actionErr *ActionError
		if !errors.As(err, &actionErr) {
			actionErr = &ActionError{
				Kind:    ErrNetwork,
				Message: fmt.Sprintf("%s failed: %v", kind, err),
				Err:     err,
			}
		}
		d.record(kind, name, elapsed, actionErr)
		return Request{}, actionErr
	}

	d.record(kind, name, elapsed, nil)
	return updated, nil
}

func (d *Dispatcher) call(ctx context.Context, kind ActionKind, name string) (Request, error) {
	switch kind {
	case ActionApprove:
		return d.remote.Approve(ctx, name)
	case ActionDismiss:
		return d.remote.Dismiss(ctx, name)
	case ActionRevoke:
		return d.remote.Revoke(ctx, name)
	}
	return Request{}, &ActionError{Kind: ErrNotFound, Message: fmt.Sprintf("unknown action: %s", kind)}
}

func (d *Dispatcher) record(kind ActionKind, name string, elapsed time.Duration, actionErr *ActionError) {
	if d.recorder != nil {
		d.recorder.Observe(string(kind), elapsed, actionErr != nil)
	}
	if d.audit == nil {
		return
	}
	event := audit.Event{
		Action:  string(kind),
		Request: name,
		Result:  "ok",
	}
	if actionErr != nil {
		event.Result = "error"
		event.Error = actionErr.Message
		event.ErrorKind = string(actionErr.Kind)
	}
	_ = d.audit.Append(event)
}
