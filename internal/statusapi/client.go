// Package statusapi reads the settings and device status exposed by the
// local free-sleep server.
package statusapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint paths
const (
	ServicesPath     = "/api/services"
	SettingsPath     = "/api/settings"
	DeviceStatusPath = "/api/deviceStatus"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 1 << 20

var ErrMissingField = errors.New("missing field in response")

// Services is the subset of /api/services used here.
type Services struct {
	SentryLogging *struct {
		Enabled *bool `json:"enabled"`
	} `json:"sentryLogging"`
}

// SentryEnabled returns the sentryLogging.enabled flag.
func (s *Services) SentryEnabled() (bool, error) {
	if s.SentryLogging == nil || s.SentryLogging.Enabled == nil {
		return false, fmt.Errorf("%w: sentryLogging.enabled", ErrMissingField)
	}
	return *s.SentryLogging.Enabled, nil
}

// Settings is the subset of /api/settings used here.
type Settings struct {
	ID json.RawMessage `json:"id"`
}

// UserID returns the settings id as text. String ids are unquoted, anything
// else keeps its JSON form.
func (s *Settings) UserID() (string, error) {
	if len(s.ID) == 0 || string(s.ID) == "null" {
		return "", fmt.Errorf("%w: id", ErrMissingField)
	}
	var id string
	if err := json.Unmarshal(s.ID, &id); err == nil {
		return id, nil
	}
	return string(s.ID), nil
}

// DeviceStatus is the subset of /api/deviceStatus used here.
type DeviceStatus struct {
	FreeSleep *struct {
		Branch  *string `json:"branch"`
		Version *string `json:"version"`
	} `json:"freeSleep"`
	HubVersion   *string `json:"hubVersion"`
	CoverVersion *string `json:"coverVersion"`
}

// Validate checks that every field used for tagging is present.
func (d *DeviceStatus) Validate() error {
	var missing []string
	if d.FreeSleep == nil {
		missing = append(missing, "freeSleep")
	} else {
		if d.FreeSleep.Branch == nil {
			missing = append(missing, "freeSleep.branch")
		}
		if d.FreeSleep.Version == nil {
			missing = append(missing, "freeSleep.version")
		}
	}
	if d.HubVersion == nil {
		missing = append(missing, "hubVersion")
	}
	if d.CoverVersion == nil {
		missing = append(missing, "coverVersion")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// Client talks to the status service. Every call is bounded by the
// configured timeout.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Services fetches /api/services.
func (c *Client) Services(ctx context.Context) (*Services, error) {
	var out Services
	if err := c.getJSON(ctx, ServicesPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Settings fetches /api/settings.
func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := c.getJSON(ctx, SettingsPath, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeviceStatus fetches /api/deviceStatus.
func (c *Client) DeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	var out DeviceStatus
	if err := c.getJSON(ctx, DeviceStatusPath, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
