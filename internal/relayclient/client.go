// Package relayclient talks to the relay service from the host.
package relayclient

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

	"github.com/benvon/virality-checker/internal/models"
	"github.com/benvon/virality-checker/internal/request"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxResponseBytes bounds how much of a relay response is read
const maxResponseBytes = 1 << 20

var (
	// ErrUnavailable means the relay could not be reached
	ErrUnavailable = errors.New("relay unreachable")
	// ErrMalformed means the relay answered 2xx with an unreadable body
	ErrMalformed = errors.New("malformed relay response")
)

// StatusError is a non-2xx relay response
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("relay error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// Client calls the relay's HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a relay client for baseURL (e.g. http://localhost:3000)
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// No client timeout; a hang surfaces when the transport gives up or ctx ends
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends one analysis request to POST /analyze
func (c *Client) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, status, err := c.do(ctx, http.MethodPost, "/analyze", payload)
	if err != nil {
		return nil, err
	}

	var resp models.AnalyzeResponse
	decodeErr := json.Unmarshal(body, &resp)

	if status < 200 || status > 299 {
		statusErr := &StatusError{StatusCode: status, Code: resp.Code, Message: resp.Error}
		if decodeErr != nil || statusErr.Message == "" {
			statusErr.Message = http.StatusText(status)
		}
		return nil, statusErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, decodeErr)
	}
	if !resp.Success || resp.Analysis == nil {
		return nil, fmt.Errorf("%w: success=%t without analysis", ErrMalformed, resp.Success)
	}
	return resp.Analysis, nil
}

// Health calls GET /health
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{StatusCode: status, Message: http.StatusText(status)}
	}

	var resp models.HealthResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := request.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	httpReq.Header.Set(request.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("relay_request_failed",
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: failed to read response: %w", ErrUnavailable, err)
	}

	c.logger.Debug("relay_response",
		zap.String("path", path),
		zap.Int("status_code", resp.StatusCode),
		zap.Int("response_length", len(body)),
		zap.String("request_id", requestID),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	return body, resp.StatusCode, nil
}
