package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/studiowebux/sihui/internal/metrics"
	"github.com/studiowebux/sihui/internal/session"
	"github.com/studiowebux/sihui/internal/types"
)

// DefaultTimeout applies when neither the client nor the call sets one
const DefaultTimeout = 10 * time.Second

// Recorder receives every completed exchange
type Recorder interface {
	Record(exchange types.Exchange) error
}

// RecorderFunc adapts a function to Recorder
type RecorderFunc func(types.Exchange) error

func (f RecorderFunc) Record(exchange types.Exchange) error {
	return f(exchange)
}

// Config configures a Client
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Store      session.Store // read for the bearer token, never written
	HTTPClient *http.Client
	TLS        *TLSConfig
	Logger     logrus.FieldLogger
	RateLimit  float64 // requests per second, 0 disables
	Metrics    *metrics.Collector
	Recorders  []Recorder
	UserAgent  string
	// OnUnauthorized runs after any 401 response
	OnUnauthorized func()
}

// Client performs calls against the Sihui API
type Client struct {
	baseURL        string
	timeout        time.Duration
	store          session.Store
	httpClient     *http.Client
	logger         logrus.FieldLogger
	limiter        *rate.Limiter
	metrics        *metrics.Collector
	recorders      []Recorder
	userAgent      string
	onUnauthorized func()

	// withTimeout derives the per-call deadline; replaced in tests
	withTimeout func(context.Context, time.Duration) (context.Context, context.CancelFunc)
	now         func() time.Time
}

// New creates a client from cfg
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		built, err := buildHTTPClient(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
		}
		httpClient = built
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	store := cfg.Store
	if store == nil {
		store = session.NewMemoryStore()
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "sihui"
	}

	c := &Client{
		baseURL:        cfg.BaseURL,
		timeout:        timeout,
		store:          store,
		httpClient:     httpClient,
		logger:         logger,
		metrics:        cfg.Metrics,
		recorders:      cfg.Recorders,
		userAgent:      userAgent,
		onUnauthorized: cfg.OnUnauthorized,
		withTimeout:    context.WithTimeout,
		now:            time.Now,
	}
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetUnauthorizedHandler replaces the 401 hook
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// Get performs a GET with an optional query map
func (c *Client) Get(ctx context.Context, endpoint string, params Params, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Endpoint: endpoint, Query: params}, out)
}

// Post performs a POST with a JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Body: body}, out)
}

// Put performs a PUT with a JSON body
func (c *Client) Put(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Endpoint: endpoint, Body: body}, out)
}

// Patch performs a PATCH with a JSON body
func (c *Client) Patch(ctx context.Context, endpoint string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPatch, Endpoint: endpoint, Body: body}, out)
}

// Delete performs a DELETE
func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Endpoint: endpoint}, out)
}

// Upload performs a multipart POST. The JSON Content-Type default is not sent;
// the multipart encoder supplies the type with its boundary.
func (c *Client) Upload(ctx context.Context, endpoint string, form *Form, out any) error {
	if form == nil {
		form = NewForm()
	}
	return c.Do(ctx, Request{Method: http.MethodPost, Endpoint: endpoint, Form: form}, out)
}

// Fetch performs req and decodes the response into a T
func Fetch[T any](ctx context.Context, c *Client, req Request) (T, error) {
	var out T
	if err := c.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// Do performs a request and decodes a successful body into out (which may be nil)
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := c.withTimeout(ctx, timeout)
	defer cancel()

	fullURL := joinURL(c.baseURL, req.Endpoint, req.Query)
	exchange := types.Exchange{
		RequestID: uuid.NewString(),
		Method:    method,
		URL:       fullURL,
		Endpoint:  req.Endpoint,
		Timestamp: c.now(),
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.finish(exchange, false, c.contextError(ctx, timeout, err))
		}
	}

	var (
		body        io.Reader
		contentType = "application/json"
		err         error
	)
	if req.Form != nil {
		var buf *bytes.Buffer
		buf, contentType, err = req.Form.encode()
		if err != nil {
			return err
		}
		body = buf
		exchange.RequestSize = int64(buf.Len())
	} else {
		body, exchange.RequestSize, err = req.encodeBody()
		if err != nil {
			return err
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(httpReq, req, contentType, exchange.RequestID)

	c.metrics.RequestStarted()
	start := c.now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		exchange.Duration = c.now().Sub(start)
		return c.finish(exchange, true, c.contextError(ctx, timeout, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	exchange.Duration = c.now().Sub(start)
	exchange.Status = resp.StatusCode
	exchange.ResponseSize = int64(len(data))
	if err != nil {
		return c.finish(exchange, true, c.contextError(ctx, timeout, fmt.Errorf("failed to read response body: %w", err)))
	}

	if !IsSuccessStatus(resp.StatusCode) {
		rerr := newResponseError(resp.StatusCode, data)
		if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return c.finish(exchange, true, rerr)
	}

	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return c.finish(exchange, true, &DecodeError{Method: method, Endpoint: req.Endpoint, Err: err})
		}
	}
	return c.finish(exchange, true, nil)
}

// setHeaders applies defaults, call headers and credentials in that order
func (c *Client) setHeaders(httpReq *http.Request, req Request, contentType, requestID string) {
	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	for key, value := range req.Headers {
		headers[http.CanonicalHeaderKey(key)] = value
	}
	if req.Form != nil {
		delete(headers, "Content-Type")
	}

	for key, value := range headers {
		httpReq.Header.Set(key, value)
	}
	if req.Form != nil {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if token := session.Token(c.store); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
}

// contextError marks failures caused by the call's own deadline
func (c *Client) contextError(ctx context.Context, timeout time.Duration, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request cancelled: %w", err)
	}
	return fmt.Errorf("failed to send request: %w", err)
}

// finish reports the exchange and passes err through.
// sent is false when the request never reached the transport.
func (c *Client) finish(exchange types.Exchange, sent bool, err error) error {
	if err != nil {
		exchange.Error = err.Error()
	}

	normalized := NormalizeEndpoint(exchange.Endpoint)
	if sent {
		c.metrics.RequestFinished(exchange.Method, normalized, exchange.Status, exchange.Duration)
	}

	entry := c.logger.WithFields(logrus.Fields{
		"method":     exchange.Method,
		"url":        exchange.URL,
		"status":     exchange.Status,
		"duration":   FormatDuration(exchange.Duration.Milliseconds()),
		"request_id": exchange.RequestID,
	})
	if err != nil {
		entry.WithError(err).Debug("request failed")
	} else {
		entry.Debug("request completed")
	}

	for _, r := range c.recorders {
		if rerr := r.Record(exchange); rerr != nil {
			c.logger.WithError(rerr).Warn("failed to record exchange")
		}
	}
	return err
}
