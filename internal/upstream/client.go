// Package upstream provides the HTTP client for the RapidAPI movie catalog with:
// - Base URL resolution and credential injection
// - Failure classification (rate limit, bad response, network) at the point of origin
// - Bounded retries for network failures and 5xx responses
// - Circuit breaking
// - Transparent gzip/brotli response decoding
package upstream

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"

	"moviegate/internal/core"
	"moviegate/internal/httpclient"
)

const (
	// HeaderAPIKey carries the RapidAPI key on every call
	HeaderAPIKey = "x-rapidapi-key"
	// HeaderAPIHost carries the RapidAPI host on every call
	HeaderAPIHost = "x-rapidapi-host"

	// maxBodySize bounds how much of an upstream body is read (decompressed).
	maxBodySize = 10 * 1024 * 1024
)

// Config holds configuration for the upstream client
type Config struct {
	// APIKey is sent as x-rapidapi-key; required
	APIKey string
	// APIHost is sent as x-rapidapi-host and used to derive the base URL
	APIHost string
	// BaseURL overrides the derived https://{APIHost}/api/imdb when non-empty
	BaseURL string

	// Retry configuration (network failures and 5xx only)
	MaxRetries     int           // Maximum number of retry attempts (default: 0)
	InitialBackoff time.Duration // Initial backoff duration (default: 500ms)
	MaxBackoff     time.Duration // Maximum backoff duration (default: 5s)
	BackoffFactor  float64       // Backoff multiplier (default: 2.0)

	// Circuit breaker configuration
	CircuitBreaker *CircuitBreakerConfig
}

// CircuitBreakerConfig holds circuit breaker settings
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of failures before opening the circuit
	FailureThreshold int
	// SuccessThreshold is the number of successes needed to close an open circuit
	SuccessThreshold int
	// Timeout is how long to wait before attempting to close an open circuit
	Timeout time.Duration
}

// DefaultConfig returns default client configuration
func DefaultConfig(apiKey, apiHost, baseURL string) Config {
	return Config{
		APIKey:         apiKey,
		APIHost:        apiHost,
		BaseURL:        baseURL,
		MaxRetries:     0,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		BackoffFactor:  2.0,
		CircuitBreaker: &CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
		},
	}
}

// ResolveBaseURL returns the explicit base URL, or one derived from the host.
// Both missing is a configuration error.
func (c Config) ResolveBaseURL() (string, error) {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		return strings.TrimRight(base, "/"), nil
	}
	if host := strings.TrimSpace(c.APIHost); host != "" {
		return "https://" + host + "/api/imdb", nil
	}
	return "", core.NewConfigurationError("missing upstream base URL: set RAPIDAPI_BASE_URL or RAPIDAPI_HOST")
}

// Validate checks credentials and base URL without touching the network.
func (c Config) Validate() error {
	if _, err := c.ResolveBaseURL(); err != nil {
		return err
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return core.NewConfigurationError("missing upstream API key: set RAPIDAPI_KEY")
	}
	return nil
}

// hostHeader returns the value for x-rapidapi-host, falling back to the base URL host.
func (c Config) hostHeader(baseURL string) string {
	if c.APIHost != "" {
		return c.APIHost
	}
	if u, err := url.Parse(baseURL); err == nil {
		return u.Host
	}
	return ""
}

// RequestInfo describes one finished upstream call for observers.
type RequestInfo struct {
	Endpoint   string
	StatusCode int
	// Outcome is "success" or the core.ErrorType of the failure
	Outcome  string
	Duration time.Duration
}

// Hooks are invoked around upstream calls (metrics, tracing).
type Hooks struct {
	OnRequestEnd func(ctx context.Context, info RequestInfo)
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the default *http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithHooks installs request observers
func WithHooks(hooks Hooks) Option {
	return func(c *Client) { c.hooks = hooks }
}

// Client performs authenticated GETs against the movie catalog.
// It never touches the cache; callers own caching.
type Client struct {
	httpClient     *http.Client
	config         Config
	hooks          Hooks
	circuitBreaker *circuitBreaker
}

// New creates a new upstream client with the given configuration
func New(config Config, opts ...Option) *Client {
	c := &Client{
		httpClient: httpclient.New(httpclient.DefaultConfig()),
		config:     config,
	}
	for _, opt := range opts {
		opt(c)
	}

	if config.CircuitBreaker != nil {
		c.circuitBreaker = newCircuitBreaker(
			config.CircuitBreaker.FailureThreshold,
			config.CircuitBreaker.SuccessThreshold,
			config.CircuitBreaker.Timeout,
		)
	}

	return c
}

// Config returns the client configuration
func (c *Client) Config() Config {
	return c.config
}

// Request represents one upstream GET
type Request struct {
	// Name labels the endpoint in logs and metrics (e.g. "top250")
	Name string
	// Path is appended to the base URL
	Path  string
	Query url.Values
}

// Get performs the request and returns the decoded body of a 2xx response.
// Errors are *core.MovieError of type configuration, rate_limit, upstream, parse or network.
func (c *Client) Get(ctx context.Context, req Request) ([]byte, error) {
	baseURL, err := c.config.ResolveBaseURL()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.config.APIKey) == "" {
		return nil, core.NewConfigurationError("missing upstream API key: set RAPIDAPI_KEY")
	}

	if c.circuitBreaker != nil && !c.circuitBreaker.Allow() {
		return nil, core.NewNetworkError("circuit breaker is open - upstream temporarily unavailable", nil)
	}

	start := time.Now()
	body, status, err := c.doWithRetries(ctx, baseURL, req)
	c.observe(ctx, req, status, err, time.Since(start))
	return body, err
}

func (c *Client) doWithRetries(ctx context.Context, baseURL string, req Request) ([]byte, int, error) {
	maxAttempts := c.config.MaxRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	var lastStatus int
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, lastStatus, core.NewNetworkError("upstream request canceled", ctx.Err())
			case <-time.After(c.calculateBackoff(attempt)):
			}
		}

		body, status, err := c.doRequest(ctx, baseURL, req)
		lastStatus = status
		if err == nil {
			if c.circuitBreaker != nil {
				c.circuitBreaker.RecordSuccess()
			}
			return body, status, nil
		}
		lastErr = err

		if !c.isRetryable(ctx, err) {
			if status >= 500 {
				c.recordFailure(ctx, req)
			}
			return nil, status, err
		}
		c.recordFailure(ctx, req)
	}
	return nil, lastStatus, lastErr
}

// recordFailure feeds the circuit breaker and reports when it opens.
func (c *Client) recordFailure(ctx context.Context, req Request) {
	if c.circuitBreaker == nil {
		return
	}
	wasOpen := c.circuitBreaker.State() == "open"
	c.circuitBreaker.RecordFailure()
	if state := c.circuitBreaker.State(); state == "open" && !wasOpen {
		slog.Warn("upstream circuit breaker opened",
			"endpoint", req.Name,
			"state", state,
			"request_id", core.GetRequestID(ctx),
		)
	}
}

// doRequest executes a single HTTP request without retries
func (c *Client) doRequest(ctx context.Context, baseURL string, req Request) ([]byte, int, error) {
	httpReq, err := c.buildRequest(ctx, baseURL, req)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, 0, core.NewNetworkError("failed to reach upstream: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, core.NewNetworkError("failed to read upstream response: "+err.Error(), err)
	}

	encoding := resp.Header.Get("Content-Encoding")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The status decides the error type; the body is diagnostics only
		body, err := decompressBody(raw, encoding)
		if err != nil {
			body = raw
		}
		return nil, resp.StatusCode, core.ClassifyUpstreamStatus(resp.StatusCode, body)
	}

	body, err := decompressBody(raw, encoding)
	if err != nil {
		return nil, resp.StatusCode, core.NewParseError("failed to decode upstream response: "+err.Error(), err)
	}
	return body, resp.StatusCode, nil
}

// buildRequest creates an HTTP request carrying the RapidAPI headers
func (c *Client) buildRequest(ctx context.Context, baseURL string, req Request) (*http.Request, error) {
	target := baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, core.NewConfigurationError("invalid upstream URL " + target + ": " + err.Error())
	}

	httpReq.Header.Set(HeaderAPIKey, c.config.APIKey)
	httpReq.Header.Set(HeaderAPIHost, c.config.hostHeader(baseURL))
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if id := core.GetRequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	return httpReq, nil
}

func (c *Client) observe(ctx context.Context, req Request, status int, err error, d time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = string(core.ErrorTypeOf(err))
	}

	slog.Debug("upstream request",
		"endpoint", req.Name,
		"path", req.Path,
		"status", status,
		"outcome", outcome,
		"duration", d,
		"request_id", core.GetRequestID(ctx),
	)

	if c.hooks.OnRequestEnd != nil {
		c.hooks.OnRequestEnd(ctx, RequestInfo{
			Endpoint:   req.Name,
			StatusCode: status,
			Outcome:    outcome,
			Duration:   d,
		})
	}
}

// calculateBackoff calculates the backoff duration for a given attempt
func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffFactor, float64(attempt-1))
	if backoff > float64(c.config.MaxBackoff) {
		backoff = float64(c.config.MaxBackoff)
	}
	return time.Duration(backoff)
}

// isRetryable reports whether a failed attempt may be repeated in place.
// Rate limits are retryable for the client of the gateway, but are surfaced
// immediately here so the caller can back off.
func (c *Client) isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errCanceled(err) {
		return false
	}
	var movieErr *core.MovieError
	if !errors.As(err, &movieErr) || movieErr.Type == core.ErrorTypeRateLimit {
		return false
	}
	return movieErr.IsRetryable()
}

// decompressBody decodes the body according to Content-Encoding.
// Supports gzip, deflate, and brotli (br) encodings.
func decompressBody(body []byte, contentEncoding string) ([]byte, error) {
	if len(body) == 0 || contentEncoding == "" {
		return body, nil
	}

	encoding := strings.ToLower(strings.TrimSpace(strings.Split(contentEncoding, ",")[0]))

	var reader io.ReadCloser
	switch encoding {
	case "", "identity":
		return body, nil
	case "gzip":
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		reader = gz
	case "deflate":
		reader = flate.NewReader(bytes.NewReader(body))
	case "br":
		reader = io.NopCloser(brotli.NewReader(bytes.NewReader(body)))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
	defer reader.Close()

	decoded, err := io.ReadAll(io.LimitReader(reader, maxBodySize))
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// circuitBreaker implements a simple circuit breaker pattern
type circuitBreaker struct {
	mu               sync.RWMutex
	state            circuitState
	failures         int
	successes        int
	failureThreshold int
	successThreshold int
	timeout          time.Duration
	lastFailure      time.Time
}

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

func newCircuitBreaker(failureThreshold, successThreshold int, timeout time.Duration) *circuitBreaker {
	return &circuitBreaker{
		state:            circuitClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
	}
}

// Allow checks if a request should be allowed through the circuit breaker
func (cb *circuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitOpen:
		if time.Since(cb.lastFailure) > cb.timeout {
			cb.state = circuitHalfOpen
			cb.successes = 0
			return true
		}
		return false
	default:
		return true
	}
}

// RecordSuccess records a successful request
func (cb *circuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case circuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.successThreshold {
			cb.state = circuitClosed
			cb.failures = 0
		}
	case circuitClosed:
		cb.failures = 0
	}
}

// RecordFailure records a failed request
func (cb *circuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	switch cb.state {
	case circuitClosed:
		if cb.failures >= cb.failureThreshold {
			cb.state = circuitOpen
		}
	case circuitHalfOpen:
		cb.state = circuitOpen
		cb.successes = 0
	}
}

// State returns the current circuit state (for testing/monitoring)
func (cb *circuitBreaker) State() string {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case circuitClosed:
		return "closed"
	case circuitOpen:
		return "open"
	case circuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// errCanceled reports whether err came from the caller giving up.
func errCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
