package Geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"Taskforce/Constants"
)

// Client fetches the worker device's current position from the tracker
// gateway. Every call is bounded by Timeout; acquiring a location is the
// only operation in a transition allowed to wait, and it must never stall
// one indefinitely.
type Client struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient() *Client {
	timeout := Constants.LocationTimeout()
	return &Client{
		BaseURL:    Constants.TrackerServiceURL(),
		Timeout:    timeout,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Current returns the position as a formatted "lat, lon" string.
func (c *Client) Current(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	url := c.BaseURL + "/api/position/current"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tracker request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tracker returned status %d", resp.StatusCode)
	}

	var output struct {
		Latitude  float64 `json:"lat"`
		Longitude float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&output); err != nil {
		return "", fmt.Errorf("failed to parse tracker response: %w", err)
	}

	return FormatCoordinates(output.Latitude, output.Longitude), nil
}

func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
