package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GoSim-25-26J-441/routesearch/internal/oracle/oraclev1"
	"github.com/GoSim-25-26J-441/routesearch/pkg/models"
	"github.com/GoSim-25-26J-441/routesearch/pkg/utils"
)

// maxResponseBytes bounds how much of a reply body is read
const maxResponseBytes = 64 << 10

// HTTPClient talks to the oracle's JSON endpoints
type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// NewHTTPClient creates a client for baseURL, e.g. http://localhost:5000.
// timeout bounds every Evaluate call.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

func (c *HTTPClient) Target() string {
	return c.baseURL
}

// Evaluate posts the route to /calculate_distance. A 400 reply is an invalid
// input failure. Network errors, timeouts, 429 and 502 to 504 replies are
// transport failures. Any other non-200 reply is an internal failure.
func (c *HTTPClient) Evaluate(ctx context.Context, route models.Route) models.EvalResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(oraclev1.NewCalculateRequest(route))
	if err != nil {
		return models.Failed(models.FailureInternal, "encode request: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+oraclev1.PathCalculateDistance, bytes.NewReader(body))
	if err != nil {
		return models.Failed(models.FailureInternal, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(oraclev1.RequestIDHeader, utils.GenerateRequestID())

	resp, err := c.http.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var out oraclev1.CalculateResponse
		if err := json.Unmarshal(data, &out); err != nil {
			return models.Failed(models.FailureInternal, "decode response: %v", err)
		}
		if out.TotalDistance == nil {
			return models.Failed(models.FailureInternal, "response has no total_distance")
		}
		return lengthResult(*out.TotalDistance)
	case resp.StatusCode == http.StatusBadRequest:
		return models.Failed(models.FailureInvalidInput, "%s", describe(resp.StatusCode, errorMessage(data)))
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return models.Failed(models.FailureTransport, "%s", describe(resp.StatusCode, errorMessage(data)))
	default:
		return models.Failed(models.FailureInternal, "%s", describe(resp.StatusCode, errorMessage(data)))
	}
}

// Ping calls GET /health and expects {"status": "healthy"}
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+oraclev1.PathHealth, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	var health oraclev1.HealthResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&health); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if health.Status != oraclev1.HealthyStatus {
		return fmt.Errorf("oracle reports status %q", health.Status)
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// errorMessage extracts {"error": ...} from a reply body, falling back to the raw text
func errorMessage(data []byte) string {
	var e oraclev1.ErrorResponse
	if err := json.Unmarshal(data, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
