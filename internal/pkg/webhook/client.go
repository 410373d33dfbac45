package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Workflow endpoints. All writes in this system (clock events, schedule
// and template mutations, registrations, profile saves) happen through
// the external workflow engine behind these paths.
const (
	EndpointClockIn      = "clockIn"
	EndpointClockOut     = "ClockOut"
	EndpointSchedule     = "schedule"
	EndpointTemplate     = "template"
	EndpointRegistration = "registration"
	EndpointProfileSave  = "save"
)

// doneRegex matches the confirmation token the workflow returns on a
// completed write. An HTTP success status alone is NOT confirmation:
// the workflow answers 200 "processing" while the write is still queued.
var doneRegex = regexp.MustCompile(`(?i)done`)

// Result is the outcome of one outbound command.
type Result struct {
	StatusCode int
	Body       string
	Confirmed  bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Send posts payload as JSON to the named endpoint. A non-2xx status or
// a body without the "done" token yields Confirmed=false; transport
// failures are returned as errors.
func (c *Client) Send(ctx context.Context, endpoint string, payload interface{}) (Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode webhook payload: %w", err)
	}

	url := c.baseURL + "/webhook/" + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("post webhook %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	// The workflow replies with short plain-text bodies; cap the read.
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return Result{}, fmt.Errorf("read webhook response: %w", err)
	}

	result := Result{
		StatusCode: resp.StatusCode,
		Body:       string(respBody),
	}
	result.Confirmed = resp.StatusCode >= 200 && resp.StatusCode < 300 && doneRegex.MatchString(result.Body)
	return result, nil
}
