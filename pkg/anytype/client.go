package anytype

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/anytype-sdk/anytype_sdk_go/internal/anytypeapi"
	"github.com/anytype-sdk/anytype_sdk_go/internal/httpx"
)

const (
	// DefaultBaseURL is the local Anytype API address used when none is given.
	DefaultBaseURL = "http://localhost:3030"
	// APIVersion is sent with every request in the Anytype-Version header.
	APIVersion = "2025-05-20"

	headerVersion = "Anytype-Version"
)

// RetryPolicy controls retries of transient failures. The zero value disables them.
type RetryPolicy = httpx.RetryPolicy

// Requester is the request surface used by the resource managers.
type Requester interface {
	Get(ctx context.Context, path string, query url.Values) (Response, error)
	Post(ctx context.Context, path string, body any) (Response, error)
	Put(ctx context.Context, path string, body any) (Response, error)
	Patch(ctx context.Context, path string, body any) (Response, error)
	Delete(ctx context.Context, path string) (Response, error)
}

var _ Requester = (*Client)(nil)

type options struct {
	httpClient  *http.Client
	logger      hclog.Logger
	retryPolicy RetryPolicy
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) {
		o.httpClient = h
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l hclog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRetryPolicy enables retries of transient failures.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *options) {
		o.retryPolicy = p
	}
}

// Client issues authenticated requests against the Anytype API.
type Client struct {
	http *httpx.Client
}

// New constructs a Client. An empty baseURL selects DefaultBaseURL; an empty
// apiKey fails with ErrMissingAPIKey.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	cfg := Config{BaseURL: baseURL, APIKey: apiKey}
	return NewFromConfig(cfg, opts...)
}

// NewFromConfig constructs a Client from a validated Config.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		logger:      hclog.NewNullLogger(),
		retryPolicy: httpx.NoRetry,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = hclog.NewNullLogger()
	}

	httpOpts := []httpx.Option{
		httpx.WithHeaders(http.Header{
			"Authorization": {"Bearer " + strings.TrimSpace(cfg.APIKey)},
			"Content-Type":  {"application/json"},
			headerVersion:   {APIVersion},
		}),
		httpx.WithRetryPolicy(o.retryPolicy),
		httpx.WithLogger(o.logger),
	}
	if o.httpClient != nil {
		httpOpts = append(httpOpts, httpx.WithHTTPClient(o.httpClient))
	}

	cl, err := httpx.NewClient(cfg.BaseURL, httpOpts...)
	if err != nil {
		return nil, fmt.Errorf("anytype: init HTTP client: %w", err)
	}
	return &Client{http: cl}, nil
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.http.BaseURL()
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (Response, error) {
	return c.Request(ctx, http.MethodGet, path, nil, query)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (Response, error) {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (Response, error) {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (Response, error) {
	return c.Request(ctx, http.MethodPatch, path, body, nil)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (Response, error) {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// Request performs a call and decodes the JSON object in the response. A nil
// body, including a nil map, slice or pointer, sends no payload. Any status outside 2xx returns an *HTTPError.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (Response, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("anytype: client is nil")
	}

	req := &httpx.Request{
		Method: method,
		Path:   path,
		Query:  query,
	}
	if !isNilBody(body) {
		reader, _, err := httpx.WithJSONBody(body)
		if err != nil {
			return nil, fmt.Errorf("anytype: encode request body: %w", err)
		}
		req.Body = reader
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	data, err := httpx.ReadAllAndClose(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("anytype: read response: %w", err)
	}
	payload, err := anytypeapi.DecodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("anytype: %s %s: %w", method, path, err)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return Response(payload), nil
}

func isNilBody(body any) bool {
	if body == nil {
		return true
	}
	v := reflect.ValueOf(body)
	switch v.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
