package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Octrafic/testgen-cli/internal/core/suite"
	"github.com/Octrafic/testgen-cli/internal/infra/logger"
	"github.com/tidwall/gjson"
)

const (
	modelsPath   = "/models"
	generatePath = "/generate"
	healthPath   = "/health"

	// DefaultLookupTimeout bounds the model list and health calls
	DefaultLookupTimeout = 5 * time.Second
)

// ModelList is the response of GET /models
type ModelList struct {
	Models []string `json:"models"`
	// Warning is set when the backend fell back to a static list
	Warning string `json:"warning,omitempty"`
}

// GenerateRequest is the body of POST /generate
type GenerateRequest struct {
	Requirement string `json:"requirement"`
	Model       string `json:"model"`
}

// Client talks to the test generation backend
type Client struct {
	baseURL         string
	client          *http.Client
	lookupTimeout   time.Duration
	generateTimeout time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithGenerateTimeout bounds generation requests. Zero waits forever.
func WithGenerateTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.generateTimeout = d
	}
}

// WithLookupTimeout bounds the model list and health requests
func WithLookupTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.lookupTimeout = d
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:       baseURL,
		client:        &http.Client{},
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalized backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels fetches the model identifiers the backend can generate with
func (c *Client) ListModels(ctx context.Context) (*ModelList, error) {
	ctx, cancel := withTimeout(ctx, c.lookupTimeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodGet, modelsPath, nil)
	if err != nil {
		return nil, err
	}

	var list ModelList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse model list: %w", err)
	}
	if list.Models == nil {
		list.Models = []string{}
	}

	logger.Debug("Fetched models", logger.Int("count", len(list.Models)), logger.String("warning", list.Warning))
	return &list, nil
}

// Generate submits a requirement and waits for the generated suite
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*suite.TestSuite, error) {
	ctx, cancel := withTimeout(ctx, c.generateTimeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	logger.Info("Generating test suite", logger.String("model", req.Model), logger.Int("requirement_length", len(req.Requirement)))
	start := time.Now()

	body, err := c.do(ctx, http.MethodPost, generatePath, payload)
	if err != nil {
		logger.Warn("Generation failed", logger.Err(err))
		return nil, err
	}

	var result suite.TestSuite
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse test suite: %w", err)
	}

	logger.Info("Generated test suite",
		logger.String("suite", result.SuiteName),
		logger.Int("cases", len(result.Cases)),
		logger.Duration("elapsed", time.Since(start)))
	return &result, nil
}

// Health pings the backend and returns its reported status
func (c *Client) Health(ctx context.Context) (string, error) {
	ctx, cancel := withTimeout(ctx, c.lookupTimeout)
	defer cancel()

	body, err := c.do(ctx, http.MethodGet, healthPath, nil)
	if err != nil {
		return "", err
	}

	status := gjson.GetBytes(body, "status")
	if !status.Exists() {
		return "", fmt.Errorf("health response has no status field")
	}
	return status.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
