package approval

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// DefaultEndpoint is the production Access Approval API endpoint.
const DefaultEndpoint = "https://accessapproval.googleapis.com"

// Client issues list and mutating calls against the Access Approval API.
// The HTTP client carries credentials; Client itself never reads the
// environment.
type Client struct {
	httpClient *http.Client
	baseURL    string
	project    string
}

// NewClient creates a client for the given project. baseURL falls back to
// the production endpoint when empty.
func NewClient(httpClient *http.Client, project, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		project:    project,
	}
}

type listResponse struct {
	ApprovalRequests []RawRequest `json:"approvalRequests"`
	NextPageToken    string       `json:"nextPageToken"`
}

// List fetches approval requests for the project, following pagination.
// stateFilter narrows results server-side; the empty state lists all.
// Malformed records are logged and skipped, never fatal to the batch.
func (c *Client) List(ctx context.Context, stateFilter State) ([]Request, error) {
	endpoint := fmt.Sprintf("%s/v1/projects/%s/approvalRequests", c.baseURL, c.project)

	var requests []Request
	pageToken := ""
	for {
		query := url.Values{}
		if stateFilter != "" {
			query.Set("filter", "state="+string(stateFilter))
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		pageURL := endpoint
		if len(query) > 0 {
			pageURL += "?" + query.Encode()
		}

		var page listResponse
		if err := c.get(ctx, pageURL, &page); err != nil {
			return nil, err
		}

		for _, raw := range page.ApprovalRequests {
			req, err := Normalize(raw)
			if err != nil {
				slog.Warn("skipping malformed approval request", "error", err)
				continue
			}
			requests = append(requests, req)
		}

		if page.NextPageToken == "" {
			return requests, nil
		}
		pageToken = page.NextPageToken
	}
}

// Approve approves the named pending request and returns the updated record.
func (c *Client) Approve(ctx context.Context, name string) (Request, error) {
	return c.mutate(ctx, "approve", name)
}

// Dismiss dismisses the named pending request and returns the updated record.
func (c *Client) Dismiss(ctx context.Context, name string) (Request, error) {
	return c.mutate(ctx, "dismiss", name)
}

// Revoke invalidates a previously approved request. The API decides whether
// the request is in a revocable state; a state conflict comes back as an
// invalid_state ActionError.
func (c *Client) Revoke(ctx context.Context, name string) (Request, error) {
	return c.mutate(ctx, "invalidate", name)
}

func (c *Client) mutate(ctx context.Context, verb, name string) (Request, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Request{}, &ActionError{Kind: ErrNotFound, Message: verb + " failed: request name is required"}
	}

	callURL := fmt.Sprintf("%s/v1/%s:%s", c.baseURL, name, verb)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, callURL, strings.NewReader("{}"))
	if err != nil {
		return Request{}, &ActionError{Kind: ErrNetwork, Message: verb + " failed: " + err.Error(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Request{}, &ActionError{Kind: ErrNetwork, Message: verb + " failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Request{}, &ActionError{Kind: ErrNetwork, Message: verb + " failed: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Request{}, classifyResponse(verb, resp.StatusCode, body)
	}

	var raw RawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, &ActionError{Kind: ErrNetwork, Message: verb + " failed: invalid response: " + err.Error(), Err: err}
	}
	updated, err := Normalize(raw)
	if err != nil {
		return Request{}, &ActionError{Kind: ErrNetwork, Message: verb + " failed: " + err.Error(), Err: err}
	}
	return updated, nil
}

func (c *Client) get(ctx context.Context, callURL string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, callURL, nil)
	if err != nil {
		return &ActionError{Kind: ErrNetwork, Message: "list failed: " + err.Error(), Err: err}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &ActionError{Kind: ErrNetwork, Message: "list failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ActionError{Kind: ErrNetwork, Message: "list failed: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return classifyResponse("list", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ActionError{Kind: ErrNetwork, Message: "list failed: invalid response: " + err.Error(), Err: err}
	}
	return nil
}
