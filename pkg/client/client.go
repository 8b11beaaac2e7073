// Package client is a typed API client for the newsdesk HTTP API. Reads are
// served from an in-memory cache keyed by resource family; every mutation
// drops the families it touches, so the next read refetches.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Request describes one API call. Path is relative to the base URL
// (e.g. "/api/news/3"). Body, when non-nil, is JSON-encoded. Optional marks
// a probe where 401 means "absent" rather than an error.
type Request struct {
	Method   string
	Path     string
	Body     any
	Optional bool
}

// HTTPError is returned for any non-2xx response (other than an optional
// 401). Message carries the server's error field when one was sent.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// Client issues requests against one newsdesk server. Safe for concurrent
// use. The zero value is not usable; call New.
type Client struct {
	baseURL string
	token   string
	http    *http.Client

	mu sync.Mutex
	// cache holds raw response bodies of GETs, grouped by resource family
	// so invalidation can drop a whole family at once. Entries live until
	// a mutation touches the family.
	cache map[string]map[string][]byte
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   make(map[string]map[string][]byte),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// familyOf maps a request path to its resource family: the last path
// segment that is not an ID. "/api/news/3/comments" belongs to "comments",
// "/api/news/3" to "news".
func familyOf(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "api" || isNumeric(seg) {
			continue
		}
		return seg
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// invalidatedBy returns the families a successful mutation on the given
// path drops. Content mutations always stale the stats snapshot.
func invalidatedBy(path string) []string {
	family := familyOf(path)
	if family == "" {
		return nil
	}
	switch family {
	case "sweep":
		return []string{"news", "stats"}
	default:
		return []string{family, "stats"}
	}
}

// Do executes the request. For 2xx responses the body, if any, is decoded
// into out (pass nil to discard). The returned ok is false only when the
// request was Optional and the server answered 401; every other failure is
// an error. There is no automatic retry.
func (c *Client) Do(ctx context.Context, req Request, out any) (bool, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	if req.Method == http.MethodGet {
		if raw, hit := c.cacheGet(req.Path); hit {
			if out == nil || len(raw) == 0 {
				return true, nil
			}
			return true, json.Unmarshal(raw, out)
		}
	}

	var bodyReader io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return false, fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, bodyReader)
	if err != nil {
		return false, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	if resp.StatusCode == http.StatusUnauthorized && req.Optional {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &HTTPError{
			Status:  resp.StatusCode,
			Message: errorMessage(raw),
		}
	}

	if req.Method == http.MethodGet {
		c.cachePut(req.Path, raw)
	} else {
		c.invalidate(invalidatedBy(req.Path)...)
	}

	// 204 and empty bodies resolve to the zero value of out.
	if out == nil || resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return true, nil
	}
	return true, json.Unmarshal(raw, out)
}

// errorMessage pulls the error field from an API error body.
func errorMessage(raw []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Error
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) cacheGet(path string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, ok := c.cache[familyOf(path)]
	if !ok {
		return nil, false
	}
	raw, ok := entries[path]
	return raw, ok
}

func (c *Client) cachePut(path string, raw []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	family := familyOf(path)
	if family == "" {
		return
	}
	entries, ok := c.cache[family]
	if !ok {
		entries = make(map[string][]byte)
		c.cache[family] = entries
	}
	entries[path] = raw
}

func (c *Client) invalidate(families ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, family := range families {
		delete(c.cache, family)
	}
}

// InvalidateAll drops every cached read.
func (c *Client) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]map[string][]byte)
}
