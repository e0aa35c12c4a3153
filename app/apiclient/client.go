// Package apiclient talks to the JSONPlaceholder-style mock REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"zettaboard/app/metrics"
	"zettaboard/app/repositories"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const totalCountHeader = "X-Total-Count"

// HTTPError is returned for any non-2xx upstream response.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// Meta carries response headers the views care about. HasTotal is false
// when x-total-count is absent; an empty or unparseable header reads as zero.
type Meta struct {
	TotalCount int  `json:"totalCount"`
	HasTotal   bool `json:"hasTotal"`
}

// Response is a raw 2xx upstream response.
type Response struct {
	Body json.RawMessage `json:"body"`
	Meta Meta            `json:"meta"`
}

type Client struct {
	baseURL  string
	http     *http.Client
	cache    repositories.CacheRepository
	cacheTTL time.Duration
	metrics  metrics.Recorder
	log      *zap.Logger
	group    singleflight.Group
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithCache stores 2xx responses in repo for ttl.
func WithCache(repo repositories.CacheRepository, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = repo
		c.cacheTTL = ttl
	}
}

func WithMetrics(m metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		metrics: metrics.Nop{},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins path onto the base URL and appends query when non-empty.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

type freshKey struct{}

// Fresh marks ctx so that reads skip the response cache. Fresh responses
// are still written back.
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func isFresh(ctx context.Context) bool {
	v, _ := ctx.Value(freshKey{}).(bool)
	return v
}

// Get issues a GET for rawURL. Identical concurrent calls share one
// upstream request; the shared request is not cancelled when a caller
// gives up, only that caller stops waiting.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	key := rawURL
	if isFresh(ctx) {
		key = "fresh " + rawURL
	}
	ch := c.group.DoChan(key, func() (interface{}, error) {
		return c.do(context.WithoutCancel(ctx), rawURL)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	}
}

func (c *Client) do(ctx context.Context, rawURL string) (*Response, error) {
	if !isFresh(ctx) {
		if resp, ok := c.fromCache(ctx, rawURL); ok {
			return resp, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resource := resourceLabel(rawURL)
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveUpstream(resource, 0, time.Since(start))
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer res.Body.Close()
	c.metrics.ObserveUpstream(resource, res.StatusCode, time.Since(start))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		c.log.Warn("Upstream request failed",
			zap.String("url", rawURL),
			zap.Int("status", res.StatusCode))
		return nil, &HTTPError{StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	resp := &Response{Body: body, Meta: parseMeta(res.Header)}
	c.toCache(ctx, rawURL, resp)
	return resp, nil
}

func (c *Client) fromCache(ctx context.Context, key string) (*Response, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			c.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		c.metrics.CacheMiss(c.cache.Driver())
		return nil, false
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		c.log.Warn("Dropping unreadable cache entry", zap.String("key", key), zap.Error(err))
		c.metrics.CacheMiss(c.cache.Driver())
		return nil, false
	}
	c.metrics.CacheHit(c.cache.Driver())
	return &resp, true
}

func (c *Client) toCache(ctx context.Context, key string, resp *Response) {
	if c.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Warn("Response not cacheable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		c.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func parseMeta(h http.Header) Meta {
	raw, ok := h[http.CanonicalHeaderKey(totalCountHeader)]
	if !ok || len(raw) == 0 {
		return Meta{}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil {
		return Meta{HasTotal: true}
	}
	return Meta{TotalCount: n, HasTotal: true}
}

// resourceLabel names the collection a URL targets, e.g. "posts" or
// "comments", for metric labels.
func resourceLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	label := "unknown"
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == "" {
			continue
		}
		if _, err := strconv.Atoi(seg); err == nil {
			continue
		}
		label = seg
	}
	return label
}

// GetJSON fetches rawURL and decodes the body into T.
func GetJSON[T any](ctx context.Context, c *Client, rawURL string) (T, Meta, error) {
	var out T
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return out, Meta{}, err
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, resp.Meta, fmt.Errorf("failed to decode %s: %w", rawURL, err)
	}
	return out, resp.Meta, nil
}

// Fetcher adapts GetJSON to the func(ctx, url) shape used by fetch.Resource.
func Fetcher[T any](c *Client) func(ctx context.Context, rawURL string) (T, error) {
	return func(ctx context.Context, rawURL string) (T, error) {
		v, _, err := GetJSON[T](ctx, c, rawURL)
		return v, err
	}
}
