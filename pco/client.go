package pco

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/jonwraymond/pcokit/auth"
	"github.com/jonwraymond/pcokit/observe"
	"github.com/jonwraymond/pcokit/resilience"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.planningcenteronline.com"

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "pcokit/1.0"
	maxErrorBody     = 64 << 10
	requestIDHeader  = "X-Request-ID"
)

// Config configures a Client.
type Config struct {
	// AppID and Secret are the application credentials sent as Basic auth.
	AppID  string
	Secret string

	// TokenSource replaces Basic auth with OAuth2 bearer tokens.
	TokenSource oauth2.TokenSource

	// BaseURL defaults to DefaultBaseURL.
	BaseURL string

	// HTTPClient is the underlying client. Its transport is wrapped with the
	// credential transport. Default: a client with Timeout.
	HTTPClient *http.Client

	// Timeout applies when HTTPClient is nil. Default: 30s.
	Timeout time.Duration

	UserAgent string
}

// Option configures optional Client behavior.
type Option func(*Client)

// WithExecutor runs every request through exec. The executor must not retry.
func WithExecutor(exec *resilience.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

// WithObserver instruments every request.
func WithObserver(mw *observe.Middleware) Option {
	return func(c *Client) {
		if mw != nil {
			c.mw = mw
		}
	}
}

// Client talks to one Planning Center account.
type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
	exec      *resilience.Executor
	mw        *observe.Middleware
}

// New creates a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.TokenSource == nil && (cfg.AppID == "" || cfg.Secret == "") {
		return nil, ErrNoCredentials
	}

	raw := cfg.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("pco: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("pco: base URL %q must be http or https", raw)
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		hc = &copied
	} else if hc.Timeout <= 0 {
		hc.Timeout = defaultTimeout
	}

	if cfg.TokenSource != nil {
		hc.Transport = auth.TokenTransport(cfg.TokenSource, hc.Transport)
	} else {
		hc.Transport = &auth.BasicTransport{AppID: cfg.AppID, Secret: cfg.Secret, Base: hc.Transport}
	}

	c := &Client{
		base:      base,
		http:      hc,
		userAgent: cfg.UserAgent,
		mw:        observe.NopMiddleware(),
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Do issues one request to endpoint and decodes the data member of the
// response into out. body, when non-nil, is sent as JSON. out may be nil.
func (c *Client) Do(ctx context.Context, method, endpoint string, params url.Values, body, out any) error {
	return c.do(ctx, "", method, endpoint, params, body, out)
}

// Ping checks that the API is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, "/services/v2", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, resource, method, endpoint string, params url.Values, body, out any) error {
	meta := observe.OperationMeta{
		Kind:     observe.KindRequest,
		Resource: resource,
		Method:   method,
		Endpoint: endpoint,
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("pco: encode request body: %w", err)
		}
		payload = b
	}

	run := func(ctx context.Context, _ observe.OperationMeta) error {
		send := func(ctx context.Context) error {
			return c.roundTrip(ctx, method, endpoint, params, payload, out)
		}
		if c.exec != nil {
			return c.exec.Execute(ctx, send)
		}
		return send(ctx)
	}
	return c.mw.Wrap(run)(ctx, meta)
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, params url.Values, payload []byte, out any) error {
	u := c.buildURL(endpoint, params)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("pco: build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("pco: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var doc document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("pco: decode %s response: %w", endpoint, err)
	}
	if len(doc.Data) == 0 {
		return &ValidationError{Resource: "document", Field: "data", Reason: "is missing"}
	}
	if err := json.Unmarshal(doc.Data, out); err != nil {
		return fmt.Errorf("pco: decode %s data: %w", endpoint, err)
	}
	return nil
}

// buildURL joins an already-escaped endpoint to the base URL.
func (c *Client) buildURL(endpoint string, params url.Values) string {
	u := c.base.String() + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func newAPIError(resp *http.Response, requestID string) *APIError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Status:     http.StatusText(resp.StatusCode),
		Body:       b,
		RequestID:  requestID,
	}
	if apiErr.Status == "" {
		apiErr.Status = strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode)))
	}
	var doc document
	if json.Unmarshal(b, &doc) == nil {
		apiErr.Errors = doc.Errors
	}
	return apiErr
}

// seg escapes a caller-supplied path segment.
func seg(name, id string) (string, error) {
	if id == "" {
		return "", missingID(name)
	}
	return url.PathEscape(id), nil
}

// getOne fetches and validates a single resource.
func getOne[A Attributes](ctx context.Context, c *Client, resource, endpoint string, params url.Values) (Resource[A], error) {
	var out Resource[A]
	if err := c.do(ctx, resource, http.MethodGet, endpoint, params, nil, &out); err != nil {
		return Resource[A]{}, err
	}
	if err := out.Validate(); err != nil {
		return Resource[A]{}, err
	}
	return out, nil
}

// getList fetches and validates a collection. A null data member is an
// empty list.
func getList[A Attributes](ctx context.Context, c *Client, resource, endpoint string, params url.Values) ([]Resource[A], error) {
	var out []Resource[A]
	if err := c.do(ctx, resource, http.MethodGet, endpoint, params, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if err := out[i].Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	if out == nil {
		out = []Resource[A]{}
	}
	return out, nil
}

// write sends a resource document and validates the echoed resource.
func write[A Attributes](ctx context.Context, c *Client, resource, method, endpoint string, doc writeResource) (Resource[A], error) {
	var out Resource[A]
	if err := c.do(ctx, resource, method, endpoint, nil, writeDocument{Data: doc}, &out); err != nil {
		return Resource[A]{}, err
	}
	if err := out.Validate(); err != nil {
		return Resource[A]{}, err
	}
	return out, nil
}
