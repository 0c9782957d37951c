// Package api provides the HTTP client for the prediction backend's
// statistics, prediction and history endpoints.
package api

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

	"github.com/mwiater/predictdash/internal/appconfig"
	"github.com/mwiater/predictdash/internal/logging"
	"github.com/mwiater/predictdash/internal/metrics"
	"github.com/mwiater/predictdash/internal/stats"
)

const (
	statsPath   = "/api/stats"
	predictPath = "/api/predict"
	clearPath   = "/api/clear-history"
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %s: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned %s", e.Endpoint, e.Status)
}

// Client talks to the backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	metrics *metrics.Aggregator
}

// New constructs a Client configured with the application's backend address and request timeout.
func New(cfg *appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		baseURL: cfg.Backend(),
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// WithMetrics records the latency and outcome of every request into agg.
func (c *Client) WithMetrics(agg *metrics.Aggregator) *Client {
	c.metrics = agg
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Stats fetches and decodes the aggregate statistics document.
func (c *Client) Stats(ctx context.Context) (*stats.Payload, error) {
	body, err := c.do(ctx, http.MethodGet, statsPath, nil)
	if err != nil {
		return nil, err
	}
	payload, err := stats.DecodePayload(body)
	if err != nil {
		c.markFailed(http.MethodGet, statsPath)
		return nil, err
	}
	return payload, nil
}

// Predict submits a feature vector and returns the backend's prediction.
func (c *Client) Predict(ctx context.Context, req stats.PredictionRequest) (*stats.PredictionResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, predictPath, payload)
	if err != nil {
		return nil, err
	}
	var resp stats.PredictionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.markFailed(http.MethodPost, predictPath)
		return nil, fmt.Errorf("decode prediction response: %w", err)
	}
	return &resp, nil
}

// ClearHistory asks the backend to delete every stored prediction.
func (c *Client) ClearHistory(ctx context.Context) (*stats.ClearResult, error) {
	body, err := c.do(ctx, http.MethodPost, clearPath, nil)
	if err != nil {
		return nil, err
	}
	var result stats.ClearResult
	if err := json.Unmarshal(body, &result); err != nil {
		c.markFailed(http.MethodPost, clearPath)
		return nil, fmt.Errorf("decode clear-history response: %w", err)
	}
	if !result.Success {
		c.markFailed(http.MethodPost, clearPath)
		return nil, errors.New("clear-history was not acknowledged by the backend")
	}
	return &result, nil
}

// markFailed counts an answered request whose body could not be used as a failure.
func (c *Client) markFailed(method, path string) {
	if c.metrics != nil {
		c.metrics.MarkFailed(method + " " + path)
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (body []byte, err error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL + path
	logging.LogRequest("DASH->API", method, endpoint, payload)

	status := 0
	if c.metrics != nil {
		start := time.Now()
		defer func() {
			c.metrics.Record(method+" "+path, status, time.Since(start), err != nil)
		}()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("API->DASH", method, endpoint, body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Endpoint:   path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Message:    errorMessage(body),
		}
	}
	return body, nil
}

// errorMessage extracts the backend's {"error": ...} field, falling back to the raw body.
func errorMessage(body []byte) string {
	var eb stats.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return strings.TrimSpace(string(body))
}
