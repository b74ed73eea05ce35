package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultIPLookupURL = "https://ipapi.co/json"

// IPLocator resuelve la ubicación aproximada a partir de la IP pública.
type IPLocator struct {
	url    string
	client *http.Client
}

func NewIPLocator(url string, httpClient *http.Client) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &IPLocator{url: url, client: httpClient}
}

func (l *IPLocator) Locate(ctx context.Context) (Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Location{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return Location{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return Location{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Location{}, fmt.Errorf("ip lookup http error: status=%d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return Location{}, fmt.Errorf("unmarshal response: %w", err)
	}
	if lr.Error {
		return Location{}, fmt.Errorf("ip lookup api error: %s", lr.Reason)
	}
	if lr.Latitude == nil || lr.Longitude == nil {
		return Location{}, fmt.Errorf("ip lookup missing coordinates")
	}
	return Location{Latitude: *lr.Latitude, Longitude: *lr.Longitude}, nil
}

type lookupResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}
