package submit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is buffered.
const maxResponseBytes = 1 << 20

// HTTPOptions configures an HTTPClient.
type HTTPOptions struct {
	// Endpoint is the absolute URL definitions are POSTed to.
	Endpoint string

	// HTTPClient allows callers to inject transports, proxies, or test
	// servers. Nil selects a client with Timeout applied.
	HTTPClient *http.Client

	// Timeout caps each request when > 0. It is applied to the request
	// context, so an injected client keeps its own settings.
	Timeout time.Duration

	// Token is sent as a bearer Authorization header when set.
	Token string

	// Headers are added to every request. Later entries win on collisions.
	Headers map[string]string
}

// HTTPOption mutates HTTPOptions prior to construction.
type HTTPOption func(*HTTPOptions)

// WithEndpoint sets the target URL.
func WithEndpoint(endpoint string) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.Endpoint = strings.TrimSpace(endpoint)
	}
}

// WithHTTPClient injects a custom *http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.HTTPClient = client
	}
}

// WithTimeout caps request duration.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.Timeout = timeout
	}
}

// WithToken attaches a bearer token.
func WithToken(token string) HTTPOption {
	return func(opts *HTTPOptions) {
		opts.Token = strings.TrimSpace(token)
	}
}

// WithHeader adds a static request header. Empty names are ignored.
func WithHeader(name, value string) HTTPOption {
	return func(opts *HTTPOptions) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if opts.Headers == nil {
			opts.Headers = make(map[string]string)
		}
		opts.Headers[name] = value
	}
}

// HTTPClient posts documents to the form-creation service over HTTP.
type HTTPClient struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	token    string
	headers  map[string]string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient constructs an HTTPClient. The endpoint must be an absolute
// http or https URL.
func NewHTTPClient(options ...HTTPOption) (*HTTPClient, error) {
	cfg := HTTPOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	parsed, err := url.ParseRequestURI(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("submit: invalid endpoint %q: %w", cfg.Endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("submit: endpoint %q must use http or https", cfg.Endpoint)
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for name, value := range cfg.Headers {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			headers[http.CanonicalHeaderKey(trimmed)] = value
		}
	}

	return &HTTPClient{
		endpoint: cfg.Endpoint,
		http:     client,
		timeout:  cfg.Timeout,
		token:    cfg.Token,
		headers:  headers,
	}, nil
}

// Endpoint reports the configured URL.
func (c *HTTPClient) Endpoint() string {
	return c.endpoint
}

// Create POSTs the document. Any 2xx status is success; other statuses yield a
// *StatusError carrying the response.
func (c *HTTPClient) Create(ctx context.Context, document []byte) (*Response, error) {
	if len(document) == 0 {
		return nil, ErrEmptyDocument
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if c.timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.endpoint, bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("submit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for name, value := range c.headers {
		req.Header.Set(name, value)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("submit: request timed out: %w", err)
		}
		return nil, fmt.Errorf("submit: send: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("submit: read response: %w", err)
	}

	out := newResponse(resp.StatusCode, body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &StatusError{Code: resp.StatusCode, Response: out}
	}
	return out, nil
}
