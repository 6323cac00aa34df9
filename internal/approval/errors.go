package approval

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// MalformedRecordError reports a raw API record that cannot be normalized.
// Callers log and skip the record rather than aborting the batch.
type MalformedRecordError struct {
	Field string
	Name  string
}

func (e *MalformedRecordError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("malformed approval request: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed approval request %s: missing %s", e.Name, e.Field)
}

// ErrorKind classifies an ActionError.
type ErrorKind string

const (
	ErrNetwork      ErrorKind = "network"
	ErrPermission   ErrorKind = "permission"
	ErrInvalidState ErrorKind = "invalid_state"
	ErrNotFound     ErrorKind = "not_found"
)

// ActionError is the single error type surfaced by remote calls. In
// interactive mode it lands on the status line; in batch mode it is printed
// and converted to a non-zero exit.
type ActionError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ActionError) Unwrap() error { return e.Err }

const serviceDisabledHint = "\nThe Access Approval API is not enabled for this project. Enable it at\n" +
	"https://console.cloud.google.com/apis/library/accessapproval.googleapis.com\n" +
	"and wait a few minutes for the change to take effect."

// classifyResponse converts a non-2xx API response into an ActionError.
func classifyResponse(op string, status int, body []byte) *ActionError {
	message := apiErrorMessage(body)
	if message == "" {
		message = http.StatusText(status)
	}
	message = fmt.Sprintf("%s failed: %s", op, message)
	if strings.Contains(string(body), "SERVICE_DISABLED") {
		message += serviceDisabledHint
	}

	kind := ErrNetwork
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		kind = ErrPermission
	case http.StatusNotFound:
		kind = ErrNotFound
	case http.StatusBadRequest, http.StatusConflict:
		kind = ErrInvalidState
	}
	return &ActionError{Kind: kind, Message: message}
}

// apiErrorMessage extracts the human-readable message from a Google API
// error envelope: {"error": {"message": "...", "status": "..."}}.
func apiErrorMessage(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Message
}
