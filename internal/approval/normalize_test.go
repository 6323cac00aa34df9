package approval

import (
	"errors"
	"testing"
	"time"
)

func TestNormalize_MissingStateIsPending(t *testing.T) {
	raw := RawRequest{
		Name:        "projects/123456789/approvalRequests/abcd1234",
		RequestTime: "2025-02-18T10:30:00Z",
	}

	req, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if req.State != StatePending {
		t.Fatalf("expected PENDING for missing state, got %s", req.State)
	}
}

func TestNormalize_MissingNameIsMalformed(t *testing.T) {
	raw := RawRequest{RequestTime: "2025-02-18T10:30:00Z"}

	_, err := Normalize(raw)
	var malformed *MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedRecordError, got %v", err)
	}
	if malformed.Field != "name" {
		t.Fatalf("expected missing name, got %q", malformed.Field)
	}
}

func TestNormalize_MissingRequestTimeIsMalformed(t *testing.T) {
	for _, requestTime := range []string{"", "not-a-timestamp"} {
		raw := RawRequest{
			Name:        "projects/123456789/approvalRequests/abcd1234",
			RequestTime: requestTime,
		}
		_, err := Normalize(raw)
		var malformed *MalformedRecordError
		if !errors.As(err, &malformed) {
			t.Fatalf("requestTime %q: expected MalformedRecordError, got %v", requestTime, err)
		}
		if malformed.Field != "requestTime" {
			t.Fatalf("expected missing requestTime, got %q", malformed.Field)
		}
	}
}

func TestNormalize_OptionalFieldsStayAbsent(t *testing.T) {
	raw := RawRequest{
		Name:        "projects/123456789/approvalRequests/abcd1234",
		State:       "APPROVED",
		RequestTime: "2025-02-18T10:30:00Z",
	}

	req, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if req.RequestedReason.Detail != nil {
		t.Fatal("expected absent reason detail to stay nil")
	}
	if req.RequestedExpiration != nil {
		t.Fatal("expected absent expiration to stay nil")
	}
	if req.RequestedLocations != nil {
		t.Fatal("expected absent locations to stay nil")
	}
}

func TestNormalize_FullRecord(t *testing.T) {
	detail := "incident 4711"
	raw := RawRequest{
		Name:                  "projects/123456789/approvalRequests/abcd1234",
		State:                 "PENDING",
		RequestTime:           "2025-02-18T10:30:00Z",
		RequestedResourceName: "//compute.googleapis.com/projects/test",
		RequestedReason:       &RawReason{Type: "CUSTOMER_INITIATED_SUPPORT", Detail: &detail},
		RequestedExpiration:   &RawExpiration{ExpireTime: "2025-02-19T10:30:00Z"},
		RequestedLocations:    map[string]string{"principalOfficeCountry": "US"},
	}

	req, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if req.ID() != "abcd1234" {
		t.Fatalf("expected short id abcd1234, got %q", req.ID())
	}
	if req.RequestTime.UTC() != time.Date(2025, 2, 18, 10, 30, 0, 0, time.UTC) {
		t.Fatalf("unexpected request time: %v", req.RequestTime)
	}
	if req.RequestedReason.Type != "CUSTOMER_INITIATED_SUPPORT" {
		t.Fatalf("unexpected reason type: %q", req.RequestedReason.Type)
	}
	if req.RequestedReason.Detail == nil || *req.RequestedReason.Detail != detail {
		t.Fatalf("unexpected reason detail: %v", req.RequestedReason.Detail)
	}
	if req.RequestedExpiration == nil || req.RequestedExpiration.UTC() != time.Date(2025, 2, 19, 10, 30, 0, 0, time.UTC) {
		t.Fatalf("unexpected expiration: %v", req.RequestedExpiration)
	}
	if req.RequestedLocations["principalOfficeCountry"] != "US" {
		t.Fatalf("unexpected locations: %v", req.RequestedLocations)
	}
}

func TestNormalize_UnknownStatePreserved(t *testing.T) {
	raw := RawRequest{
		Name:        "projects/123456789/approvalRequests/abcd1234",
		State:       "EXPIRED",
		RequestTime: "2025-02-18T10:30:00Z",
	}

	req, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if req.State != State("EXPIRED") {
		t.Fatalf("expected unknown state preserved, got %s", req.State)
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		input string
		want  State
		ok    bool
	}{
		{"pending", StatePending, true},
		{"PENDING", StatePending, true},
		{"approved", StateApproved, true},
		{"dismissed", StateDismissed, true},
		{"all", "", true},
		{"", "", true},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseState(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseState(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
