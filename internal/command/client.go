// Package command sends control commands to the stream backend.
package command

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ayusman/visionpanel/internal/catalog"
)

// Backend routes.
const (
	PathChangeResolution  = "/change_resolution"
	PathToggleAspectRatio = "/toggle_aspect_ratio"
	PathResetTracker      = "/reset_tracker"
	PathToggleLatency     = "/toggle_latency"
	PathScreenshot        = "/screenshot"
	PathVideoFeed         = "/video_feed"
	PathEvents            = "/events"
)

// StatusSuccess is the status value of an accepted command.
const StatusSuccess = "success"

// Envelope is the JSON body every command route answers with.
type Envelope struct {
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
	Ratio      string `json:"ratio,omitempty"`
	Resolution string `json:"resolution,omitempty"`
	Mode       bool   `json:"mode"`
}

// OK reports whether the backend accepted the command.
func (e *Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// Client issues one HTTP request per command. It does not retry.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the backend at baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins a route onto the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL + path
}

// ChangeResolution asks the backend to switch capture resolution.
func (c *Client) ChangeResolution(ctx context.Context, label string) (*Envelope, error) {
	body, err := json.Marshal(map[string]string{"resolution": label})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.post(ctx, PathChangeResolution, body)
}

// ToggleAspectRatio flips the backend aspect ratio. On success the returned
// envelope's Ratio is validated against the catalog.
func (c *Client) ToggleAspectRatio(ctx context.Context) (*Envelope, error) {
	env, err := c.post(ctx, PathToggleAspectRatio, nil)
	if err != nil {
		return nil, err
	}
	if env.OK() {
		if _, err := catalog.ParseRatio(env.Ratio); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return env, nil
}

// ResetTracker clears the backend's tracking state.
func (c *Client) ResetTracker(ctx context.Context) (*Envelope, error) {
	return c.post(ctx, PathResetTracker, nil)
}

// ToggleLatency flips low-latency mode. The new mode is in the envelope's Mode.
func (c *Client) ToggleLatency(ctx context.Context) (*Envelope, error) {
	return c.post(ctx, PathToggleLatency, nil)
}

// ScreenshotURL is the address a viewer navigates to for a capture download.
func (c *Client) ScreenshotURL() string {
	return c.URL(PathScreenshot)
}

// StreamURL is the MJPEG feed address.
func (c *Client) StreamURL() string {
	return c.URL(PathVideoFeed)
}

// EventsURL is the websocket address of the detection feed.
func (c *Client) EventsURL() string {
	u := c.URL(PathEvents)
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// post sends a POST and decodes the JSON envelope. The HTTP status code is not
// inspected: an error status with a JSON body is still a decoded response.
func (c *Client) post(ctx context.Context, path string, body []byte) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	return &env, nil
}
