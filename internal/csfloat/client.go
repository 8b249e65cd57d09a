// Package csfloat provides a typed client for the CSFloat marketplace REST
// API: listings, buy orders, offers, trades and sale history.
//
// Every call is validated, paced through a single-worker queue, sent once,
// classified by status and content type, and decoded into the records in
// pkg/types. Nothing is retried.
package csfloat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"

	"github.com/donaldgifford/csfloat-tracker/internal/metrics"
)

const (
	// DefaultBaseURL is the versioned API root every path is relative to.
	DefaultBaseURL = "https://csfloat.com/api/v1"

	defaultRequestInterval = time.Second
	defaultTimeout         = 30 * time.Second
	defaultLowQuota        = 5

	jsonMediaType   = "application/json"
	requestIDHeader = "X-Request-ID"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the CSFloat API client. It is safe for concurrent use; calls are
// serialized through its Pacer.
type Client struct {
	apiKey    string
	baseURL   string
	doer      Doer
	timeout   time.Duration
	interval  time.Duration
	pacer     *Pacer
	ownsPacer bool
	proxies   *ProxyRotator
	log       *slog.Logger
	lowQuota  int64

	lastRate atomic.Pointer[RateLimit]
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the default API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithDoer overrides the HTTP transport. A custom Doer ignores WithTimeout
// and WithProxyRotator.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		c.doer = d
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return WithDoer(hc)
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRequestInterval sets the minimum spacing between request starts.
func WithRequestInterval(d time.Duration) Option {
	return func(c *Client) {
		c.interval = d
	}
}

// WithPacer shares an existing Pacer, e.g. between clients using the same
// API key. The client does not close a shared Pacer.
func WithPacer(p *Pacer) Option {
	return func(c *Client) {
		c.pacer = p
	}
}

// WithProxyRotator routes each request through the next proxy of r.
func WithProxyRotator(r *ProxyRotator) Option {
	return func(c *Client) {
		c.proxies = r
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithLowQuotaThreshold sets the remaining-calls mark under which rate limit
// headers are logged at warn level.
func WithLowQuotaThreshold(n int64) Option {
	return func(c *Client) {
		c.lowQuota = n
	}
}

// New creates a client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	c := &Client{
		apiKey:   apiKey,
		baseURL:  DefaultBaseURL,
		timeout:  defaultTimeout,
		interval: defaultRequestInterval,
		log:      slog.New(slog.DiscardHandler),
		lowQuota: defaultLowQuota,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.doer == nil {
		c.doer = c.defaultHTTPClient()
	}
	if c.pacer == nil {
		c.pacer = NewPacer(c.interval)
		c.ownsPacer = true
	}

	return c, nil
}

func (c *Client) defaultHTTPClient() *http.Client {
	hc := &http.Client{Timeout: c.timeout}
	if c.proxies != nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.Proxy = c.proxies.Proxy
		hc.Transport = tr
	}
	return hc
}

// Close releases the client's Pacer. Calls made after Close fail with
// ErrPacerClosed.
func (c *Client) Close() {
	if c.ownsPacer {
		c.pacer.Close()
	}
}

// LastRateLimit returns the quota reported by the most recent response.
func (c *Client) LastRateLimit() RateLimit {
	if rl := c.lastRate.Load(); rl != nil {
		return *rl
	}
	return RateLimit{}
}

// Raw sends req and returns the JSON payload without decoding it into
// records. Status and content-type classification still apply.
func (c *Client) Raw(ctx context.Context, req Request) (json.RawMessage, error) {
	body, _, err := c.send(ctx, req)
	return body, err
}

// send validates req, waits for its turn on the pacer and performs the
// exchange. It returns the JSON body of a 200 response.
func (c *Client) send(
	ctx context.Context,
	req Request,
) (json.RawMessage, RateLimit, error) {
	if err := req.Validate(); err != nil {
		return nil, RateLimit{}, countError(err)
	}

	type result struct {
		body json.RawMessage
		rate RateLimit
	}

	res, err := Schedule(ctx, c.pacer, func(ctx context.Context) (result, error) {
		body, rl, err := c.exchange(ctx, req)
		return result{body: body, rate: rl}, err
	}).Wait(ctx)
	if err != nil {
		return nil, res.rate, countError(err)
	}
	return res.body, res.rate, nil
}

func (c *Client) exchange(
	ctx context.Context,
	req Request,
) (json.RawMessage, RateLimit, error) {
	start := time.Now()
	reqID := uuid.NewString()

	bodyReader := io.Reader(http.NoBody)
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, RateLimit{}, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, req.Method, c.baseURL+req.PathWithQuery(), bodyReader,
	)
	if err != nil {
		return nil, RateLimit{}, fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", jsonMediaType)
	httpReq.Header.Set("Accept-Encoding", "br")
	httpReq.Header.Set(requestIDHeader, reqID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", jsonMediaType)
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(req.Operation, "error").Inc()
		return nil, RateLimit{}, fmt.Errorf("executing %s request: %w", req.Operation, err)
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, RateLimit{}, fmt.Errorf("reading response body: %w", err)
	}

	elapsed := time.Since(start)
	metrics.APIRequestDuration.WithLabelValues(req.Operation).Observe(elapsed.Seconds())
	metrics.APIRequestsTotal.WithLabelValues(req.Operation, strconv.Itoa(resp.StatusCode)).Inc()

	rl := parseRateLimit(resp.Header)
	c.recordRateLimit(req.Operation, rl)

	c.log.Debug("csfloat request",
		"operation", req.Operation,
		"method", req.Method,
		"path", req.Path,
		"status", resp.StatusCode,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", reqID,
	)

	rawType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(rawType)
	if err != nil {
		mediaType = ""
	}

	if err := classify(resp.StatusCode, mediaType, rawType, body); err != nil {
		return nil, rl, err
	}

	return body, rl, nil
}

func (c *Client) recordRateLimit(op string, rl RateLimit) {
	if !rl.Present {
		return
	}
	c.lastRate.Store(&rl)
	metrics.RateLimitRemaining.Set(float64(rl.Remaining))
	metrics.RateLimitLimit.Set(float64(rl.Limit))

	attrs := []any{
		"operation", op,
		"remaining", rl.Remaining,
		"limit", rl.Limit,
		"reset_at", rl.ResetAt,
	}
	if rl.Low(c.lowQuota) {
		c.log.Warn("csfloat rate limit nearly exhausted", attrs...)
		return
	}
	c.log.Debug("csfloat rate limit", attrs...)
}

func readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "br") {
		r = brotli.NewReader(resp.Body)
	}
	return io.ReadAll(r)
}

// countError records err under its taxonomy bucket and returns it unchanged.
func countError(err error) error {
	metrics.APIErrorsTotal.WithLabelValues(errorKind(err)).Inc()
	return err
}

// errorKind names the taxonomy bucket of err for metrics.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrClassifiedHTTP):
		return "classified_http"
	case errors.Is(err, ErrUnexpectedStatus):
		return "unexpected_status"
	case errors.Is(err, ErrUnexpectedContentType):
		return "unexpected_content_type"
	case errors.Is(err, ErrOperationFailed):
		return "operation_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "transport"
	}
}
