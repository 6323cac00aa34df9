// Package export renders approval requests as human-readable text, CSV,
// or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mkarlsen/accessctl/internal/approval"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown export format %q (want text, json, or csv)", s)
}

// Write renders requests in the given format.
func Write(w io.Writer, format Format, requests []approval.Request, stateFilter approval.State) error {
	switch format {
	case FormatJSON:
		return JSON(w, requests)
	case FormatCSV:
		return CSV(w, requests)
	default:
		return Text(w, requests, stateFilter)
	}
}

// FormatTimestamp renders an API timestamp in the fixed human-readable form
// used across text output.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// Text writes the block format: one record per stanza, rule-separated,
// absent optional fields shown as N/A.
func Text(w io.Writer, requests []approval.Request, stateFilter approval.State) error {
	if len(requests) == 0 {
		if stateFilter != "" {
			_, err := fmt.Fprintf(w, "No approval requests found with state '%s'.\n", stateFilter)
			return err
		}
		_, err := fmt.Fprintln(w, "No approval requests found.")
		return err
	}

	if stateFilter != "" {
		fmt.Fprintf(w, "Approval Requests (State: %s):\n", stateFilter)
	} else {
		fmt.Fprintln(w, "Approval Requests:")
	}
	rule := strings.Repeat("-", 80)
	fmt.Fprintln(w, rule)

	for _, req := range requests {
		fmt.Fprintf(w, "Request Name: %s\n", req.Name)
		fmt.Fprintf(w, "State: %s\n", req.State)
		fmt.Fprintf(w, "Request Time: %s\n", FormatTimestamp(req.RequestTime))
		fmt.Fprintf(w, "Requested Resource: %s\n", orNA(req.RequestedResource))
		fmt.Fprintf(w, "Requested Reason: %s\n", orNA(req.RequestedReason.Type))
		if req.RequestedReason.Detail != nil {
			fmt.Fprintf(w, "Reason Detail: %s\n", *req.RequestedReason.Detail)
		}
		expiration := "N/A"
		if req.RequestedExpiration != nil {
			expiration = FormatTimestamp(*req.RequestedExpiration)
		}
		fmt.Fprintf(w, "Expiration Time: %s\n", expiration)
		if _, err := fmt.Fprintln(w, rule); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes requests as an indented JSON array. Absent optional fields
// are omitted so a round trip preserves absence rather than turning it into
// empty strings.
func JSON(w io.Writer, requests []approval.Request) error {
	if requests == nil {
		requests = []approval.Request{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(requests)
}

// DecodeJSON parses a JSON array previously produced by JSON.
func DecodeJSON(r io.Reader) ([]approval.Request, error) {
	var requests []approval.Request
	if err := json.NewDecoder(r).Decode(&requests); err != nil {
		return nil, fmt.Errorf("decode approval requests: %w", err)
	}
	return requests, nil
}

// csvHeader is the fixed column layout; absent optional fields become empty
// cells.
var csvHeader = []string{
	"name", "state", "request_time", "requested_resource",
	"reason_type", "reason_detail", "expiration", "locations",
}

// CSV writes requests with the fixed header row.
func CSV(w io.Writer, requests []approval.Request) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, req := range requests {
		detail := ""
		if req.RequestedReason.Detail != nil {
			detail = *req.RequestedReason.Detail
		}
		expiration := ""
		if req.RequestedExpiration != nil {
			expiration = req.RequestedExpiration.UTC().Format(time.RFC3339)
		}
		record := []string{
			req.Name,
			string(req.State),
			req.RequestTime.UTC().Format(time.RFC3339),
			req.RequestedResource,
			req.RequestedReason.Type,
			detail,
			expiration,
			flattenLocations(req.RequestedLocations),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func flattenLocations(locations map[string]string) string {
	if len(locations) == 0 {
		return ""
	}
	keys := make([]string, 0, len(locations))
	for key := range locations {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+locations[key])
	}
	return strings.Join(pairs, ";")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
