package approval

import (
	"strings"
	"time"
)

// State is the lifecycle state of an approval request.
type State string

const (
	StatePending   State = "PENDING"
	StateApproved  State = "APPROVED"
	StateDismissed State = "DISMISSED"
)

// ParseState maps a user-supplied filter value to a State. The empty string
// and "all" disable filtering.
func ParseState(s string) (State, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return "", true
	case "PENDING":
		return StatePending, true
	case "APPROVED":
		return StateApproved, true
	case "DISMISSED":
		return StateDismissed, true
	}
	return "", false
}

// Reason describes why access was requested. Detail is nil when the API did
// not include free-text detail, as opposed to including an empty string.
type Reason struct {
	Type   string  `json:"type,omitempty"`
	Detail *string `json:"detail,omitempty"`
}

// Request is a normalized approval request record. Name is the globally
// unique resource path and the only key used for mutating calls. All fields
// except State are immutable after normalization; State is refreshed in
// place after a successful mutating call.
type Request struct {
	Name                string            `json:"name"`
	State               State             `json:"state"`
	RequestTime         time.Time         `json:"requestTime"`
	RequestedResource   string            `json:"requestedResourceName,omitempty"`
	RequestedReason     Reason            `json:"requestedReason,omitzero"`
	RequestedExpiration *time.Time        `json:"requestedExpiration,omitempty"`
	RequestedLocations  map[string]string `json:"requestedLocations,omitempty"`
}

// ID returns the short request identifier, the last segment of Name.
func (r Request) ID() string {
	idx := strings.LastIndex(r.Name, "/")
	if idx < 0 {
		return r.Name
	}
	return r.Name[idx+1:]
}

// ActionKind identifies a mutating operation on an approval request.
type ActionKind string

const (
	ActionApprove ActionKind = "approve"
	ActionDismiss ActionKind = "dismiss"
	ActionRevoke  ActionKind = "revoke"
)

// PastTense returns the action verb used in status messages.
func (k ActionKind) PastTense() string {
	switch k {
	case ActionApprove:
		return "Approved"
	case ActionDismiss:
		return "Dismissed"
	case ActionRevoke:
		return "Revoked"
	}
	return string(k)
}
