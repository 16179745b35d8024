package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vmunix/costar/internal/breaker"
	"github.com/vmunix/costar/internal/cache"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// Timeouts bounds each phase of an outbound call.
type Timeouts struct {
	Connect time.Duration
	Read    time.Duration
	Write   time.Duration
}

// DefaultTimeouts returns 5s connect, 10s read, 5s write.
func DefaultTimeouts() Timeouts {
	return Timeouts{Connect: 5 * time.Second, Read: 10 * time.Second, Write: 5 * time.Second}
}

// RetryPolicy configures exponential backoff between attempts.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultRetryPolicy returns 3 attempts, 0.5s base delay doubling up to 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 10 * time.Second, Multiplier: 2}
}

// Response is a decoded-later JSON body. Fallback is set when the body came
// from the fallback cache or was synthesized instead of a live call.
type Response struct {
	Endpoint string
	Body     json.RawMessage
	Fallback bool
	Source   string
}

// Response sources.
const (
	SourceLive      = "live"
	SourceCache     = "fallback_cache"
	SourceSynthetic = "synthetic"
)

// Client is a TMDB API client guarded by a circuit breaker, with bounded
// retries and fallback data for read endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeouts   Timeouts
	retry      RetryPolicy
	breaker    *breaker.Breaker
	fallback   *cache.Manager
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. Timeouts are then the caller's responsibility.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeouts sets connect/read/write timeouts.
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) {
		c.timeouts = t
	}
}

// WithRetry sets the retry policy.
func WithRetry(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithBreaker sets the circuit breaker. Its failure classifier is replaced so
// only timeout, rate-limit, service and auth errors count.
func WithBreaker(b *breaker.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// WithFallbackCache enables last-good-response fallback through m.
func WithFallbackCache(m *cache.Manager) Option {
	return func(c *Client) {
		c.fallback = m
	}
}

// WithLogger sets a logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a new TMDB client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		timeouts: DefaultTimeouts(),
		retry:    DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	c.log = c.log.With("component", "tmdb")
	if c.breaker == nil {
		c.breaker = breaker.New("tmdb", breaker.WithLogger(c.log))
	}
	breaker.WithExpectedErrors(breakerFailures...)(c.breaker)
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.timeouts)
	}
	if c.retry.MaxAttempts < 1 {
		c.retry.MaxAttempts = 1
	}
	return c
}

// newHTTPClient applies the timeouts to the transport. net/http has no
// request-write timeout, so the write budget is folded into the overall deadline.
func newHTTPClient(t Timeouts) *http.Client {
	return &http.Client{
		Timeout: t.Connect + t.Read + t.Write,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   t.Connect,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   t.Connect,
			ResponseHeaderTimeout: t.Read,
			ExpectContinueTimeout: t.Write,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// Breaker returns the client's circuit breaker.
func (c *Client) Breaker() *breaker.Breaker { return c.breaker }

// BreakerStatus returns a snapshot of the circuit breaker.
func (c *Client) BreakerStatus() breaker.Status { return c.breaker.Status() }

// Healthy reports whether calls are currently admitted.
func (c *Client) Healthy() bool { return c.breaker.State() != breaker.StateOpen }

// Configured reports whether a usable API key is set.
func (c *Client) Configured() bool { return !isPlaceholderKey(c.apiKey) }

// Request performs a GET of endpoint with params.
//
// Configuration, authentication and not-found errors are returned. An open
// circuit, exhausted retries or any other failure produce a fallback Response
// instead of an error.
func (c *Client) Request(ctx context.Context, endpoint string, params url.Values) (*Response, error) {
	if isPlaceholderKey(c.apiKey) {
		return nil, ErrConfiguration
	}
	endpoint = strings.Trim(endpoint, "/")

	body, err := breaker.Do(c.breaker, func() ([]byte, error) {
		return c.withRetry(ctx, endpoint, func() ([]byte, error) {
			return c.do(ctx, endpoint, params)
		})
	})
	if err == nil {
		c.storeFallback(ctx, endpoint, params, body)
		return &Response{Endpoint: endpoint, Body: body, Source: SourceLive}, nil
	}

	if surfaced(err) {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	if errors.Is(err, breaker.ErrCircuitOpen) {
		c.log.Warn("circuit open, serving fallback", "endpoint", endpoint)
	} else {
		c.log.Warn("request failed, serving fallback", "endpoint", endpoint, "error", err)
	}
	return c.fallbackResponse(ctx, endpoint, params), nil
}

// withRetry runs op up to MaxAttempts times, backing off between retryable failures.
func (c *Client) withRetry(ctx context.Context, endpoint string, op func() ([]byte, error)) ([]byte, error) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retry.BaseDelay
	exp.MaxInterval = c.retry.MaxDelay
	exp.Multiplier = c.retry.Multiplier
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0

	// WithMaxRetries treats zero as unlimited, so a single attempt needs StopBackOff.
	var b backoff.BackOff = &backoff.StopBackOff{}
	if c.retry.MaxAttempts > 1 {
		b = backoff.WithMaxRetries(exp, uint64(c.retry.MaxAttempts-1))
	}
	policy := backoff.WithContext(b, ctx)

	var body []byte
	attempt := 0
	err := backoff.RetryNotify(func() error {
		attempt++
		out, err := op()
		if err != nil {
			if retryable(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		body = out
		return nil
	}, policy, func(err error, wait time.Duration) {
		c.log.Debug("retrying request", "endpoint", endpoint, "attempt", attempt, "wait", wait.String(), "error", err)
	})
	if err != nil && attempt > 1 {
		c.log.Warn("request failed after retries", "endpoint", endpoint, "attempts", attempt, "error", err)
	}
	return body, err
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(endpoint, params), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrTimeout, endpoint, redact(err, c.apiKey))
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrService, endpoint, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if err := checkResponse(resp, endpoint); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: read %s: %v", ErrTimeout, endpoint, err)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrService, endpoint, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: malformed JSON from %s", ErrService, endpoint)
	}

	c.log.Debug("request completed", "endpoint", endpoint, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())
	return body, nil
}

func (c *Client) buildURL(endpoint string, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set("api_key", c.apiKey)
	return c.baseURL + "/" + endpoint + "?" + q.Encode()
}

// checkResponse maps non-2xx statuses to error kinds.
func checkResponse(resp *http.Response, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var kind error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		kind = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		kind = ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		kind = ErrRateLimited
	case resp.StatusCode >= 500:
		kind = ErrService
	default:
		kind = ErrRequest
	}
	return &StatusError{StatusCode: resp.StatusCode, Status: resp.Status, Endpoint: endpoint, kind: kind}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// redact keeps the API key out of logged transport errors, which embed the URL.
func redact(err error, apiKey string) string {
	if apiKey == "" {
		return err.Error()
	}
	return strings.ReplaceAll(err.Error(), apiKey, "REDACTED")
}

var placeholderKeys = map[string]bool{
	"your_api_key":      true,
	"your_api_key_here": true,
	"your-tmdb-api-key": true,
	"changeme":          true,
	"placeholder":       true,
	"xxx":               true,
}

func isPlaceholderKey(key string) bool {
	k := strings.ToLower(strings.TrimSpace(key))
	return k == "" || placeholderKeys[k] || strings.HasPrefix(k, "${")
}
