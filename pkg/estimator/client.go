// Package estimator provides the public Go SDK for the move estimator service.
package estimator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotReady is returned by Health when the service has no dictionary loaded.
var ErrNotReady = errors.New("estimator service not ready")

// Client is the public SDK client for the move estimator.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientConfig holds client configuration.
type ClientConfig struct {
	BaseURL string // Default: http://localhost:8090
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// NewClient creates a new estimator client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8090"
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return nil, fmt.Errorf("base URL must be http or https: %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

// Quote is an estimate returned by the service.
type Quote struct {
	ID               string          `json:"id"`
	TotalVolume      float64         `json:"totalVolume"`
	TotalVolumeExact float64         `json:"totalVolumeExact"`
	Vehicle          string          `json:"vehicle"`
	Crew             int             `json:"crew"`
	Breakdown        []BreakdownLine `json:"breakdown"`
	Unmatched        []string        `json:"unmatched"`
	Price            *Price          `json:"price,omitempty"`
	DictionarySize   int             `json:"dictionarySize"`
	Cached           bool            `json:"cached"`
}

// BreakdownLine is one aggregated item of a quote.
type BreakdownLine struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	UnitVolume  float64 `json:"unitVolume"`
	TotalVolume float64 `json:"totalVolume"`
	Kind        string  `json:"kind"`
}

// Price is the optional linear price estimate.
type Price struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// Resolution describes how the service interpreted a single phrase.
type Resolution struct {
	Phrase     string `json:"phrase"`
	Normalized string `json:"normalized"`
	Quantity   int    `json:"quantity"`
	Residual   string `json:"residual"`
	Matched    bool   `json:"matched"`
	Match      *Match `json:"match,omitempty"`
}

// Match is the dictionary entry a phrase resolved to.
type Match struct {
	Key      string  `json:"key"`
	Volume   float64 `json:"volume"`
	Layer    string  `json:"layer"`
	Distance int     `json:"distance"`
}

// HealthStatus is the readiness report.
type HealthStatus struct {
	Status         string `json:"status"`
	DictionarySize int    `json:"dictionarySize"`
	Fingerprint    string `json:"fingerprint,omitempty"`
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode int
	Code       string `json:"error"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Estimate quotes a free-text inventory. Items are separated by newlines or commas.
func (c *Client) Estimate(ctx context.Context, items string) (*Quote, error) {
	var q Quote
	if err := c.do(ctx, http.MethodPost, "/api/v1/estimates", map[string]string{"items": items}, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// Resolve asks the service how it reads one phrase.
func (c *Client) Resolve(ctx context.Context, phrase string) (*Resolution, error) {
	var r Resolution
	if err := c.do(ctx, http.MethodPost, "/api/v1/resolve", map[string]string{"phrase": phrase}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Health checks readiness. A service without a dictionary returns ErrNotReady.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var h HealthStatus
	err := c.do(ctx, http.MethodGet, "/ready", nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
		return &h, ErrNotReady
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		// Readiness failures still carry a status body.
		_ = json.Unmarshal(data, out)
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
