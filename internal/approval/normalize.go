package approval

import (
	"time"
)

// RawRequest mirrors the wire shape of an approval request. Every field
// except name and requestTime may be absent.
type RawRequest struct {
	Name                  string            `json:"name"`
	State                 string            `json:"state,omitempty"`
	RequestTime           string            `json:"requestTime"`
	RequestedResourceName string            `json:"requestedResourceName,omitempty"`
	RequestedReason       *RawReason        `json:"requestedReason,omitempty"`
	RequestedExpiration   *RawExpiration    `json:"requestedExpiration,omitempty"`
	RequestedLocations    map[string]string `json:"requestedLocations,omitempty"`
}

// RawReason is the wire shape of requestedReason.
type RawReason struct {
	Type   string  `json:"type,omitempty"`
	Detail *string `json:"detail,omitempty"`
}

// RawExpiration is the wire shape of requestedExpiration.
type RawExpiration struct {
	ExpireTime string `json:"expireTime,omitempty"`
}

// Normalize converts a raw API record into a Request. A missing state means
// the request is still pending. Missing optional fields stay absent (nil)
// so downstream code can distinguish "not requested" from "empty". A record
// without name or requestTime is unusable and yields a MalformedRecordError.
func Normalize(raw RawRequest) (Request, error) {
	if raw.Name == "" {
		return Request{}, &MalformedRecordError{Field: "name"}
	}
	if raw.RequestTime == "" {
		return Request{}, &MalformedRecordError{Field: "requestTime", Name: raw.Name}
	}

	requestTime, err := time.Parse(time.RFC3339, raw.RequestTime)
	if err != nil {
		return Request{}, &MalformedRecordError{Field: "requestTime", Name: raw.Name}
	}

	req := Request{
		Name:              raw.Name,
		State:             StatePending,
		RequestTime:       requestTime,
		RequestedResource: raw.RequestedResourceName,
	}

	// Unknown states are preserved verbatim; the API may grow new ones.
	if raw.State != "" {
		req.State = State(raw.State)
	}

	if raw.RequestedReason != nil {
		req.RequestedReason = Reason{
			Type:   raw.RequestedReason.Type,
			Detail: raw.RequestedReason.Detail,
		}
	}

	if raw.RequestedExpiration != nil && raw.RequestedExpiration.ExpireTime != "" {
		expire, err := time.Parse(time.RFC3339, raw.RequestedExpiration.ExpireTime)
		if err == nil {
			req.RequestedExpiration = &expire
		}
	}

	if len(raw.RequestedLocations) > 0 {
		req.RequestedLocations = raw.RequestedLocations
	}

	return req, nil
}
