// Package cms is a GraphQL client for the headless CMS that serves the
// site's chapters, pages, posts and JSON content.
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultTimeout bounds a single round trip when no HTTP client is supplied.
const DefaultTimeout = 30 * time.Second

var (
	// ErrTransport wraps failures to reach the endpoint or read its response.
	ErrTransport = errors.New("cms transport")
	// ErrDecode wraps response bodies that are not the expected JSON.
	ErrDecode = errors.New("cms decode")
)

// Client sends queries to one GraphQL endpoint. It holds no per-call state
// and is safe for concurrent use.
type Client struct {
	endpoint       string
	token          string
	postCollection string
	client         *http.Client
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a bearer Authorization header.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger CMS-level errors are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPostCollection overrides DefaultPostCollection.
func WithPostCollection(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.postCollection = name
		}
	}
}

// New creates a client for the GraphQL endpoint at endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:       endpoint,
		postCollection: DefaultPostCollection,
		client:         &http.Client{Timeout: DefaultTimeout},
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL queries are sent to.
func (c *Client) Endpoint() string { return c.endpoint }

type gqlRequest struct {
	Query string `json:"query"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
	Errors json.RawMessage `json:"errors"`
}

// Query posts query and returns the response's data member, nil when it is
// absent or null. An error reported by the CMS inside a well-formed response
// is logged and not returned; only transport and decode failures are.
func (c *Client) Query(ctx context.Context, query string) (json.RawMessage, error) {
	body, _ := json.Marshal(gqlRequest{Query: query})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	var result gqlResponse
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrDecode, resp.StatusCode, err)
	}

	for _, e := range []json.RawMessage{result.Error, result.Errors} {
		if truthy(e) {
			c.logger.Error("cms query failed",
				slog.String("endpoint", c.endpoint),
				slog.Int("status", resp.StatusCode),
				slog.String("error", describe(e)))
		}
	}

	if len(result.Data) == 0 || gjson.ParseBytes(result.Data).Type == gjson.Null {
		return nil, nil
	}
	return result.Data, nil
}

// truthy reports whether raw holds a value other than null, false, 0 or "".
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	r := gjson.ParseBytes(raw)
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	default:
		return true
	}
}

// describe renders an error member for the log: strings without quotes,
// GraphQL error lists as their messages, anything else as raw JSON.
func describe(raw json.RawMessage) string {
	r := gjson.ParseBytes(raw)
	if r.Type == gjson.String {
		return r.Str
	}
	if r.IsArray() {
		if msgs := r.Get("#.message"); len(msgs.Array()) > 0 {
			return msgs.Raw
		}
	}
	return r.Raw
}
