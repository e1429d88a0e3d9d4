// Package invidious implements a typed client for the Invidious metadata API.
package invidious

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Options tunes a Client. Zero values select sensible defaults.
type Options struct {
	Timeout time.Duration // per-request budget, default 10s
	Region  string        // forwarded as the region query parameter
	Locale  string        // forwarded as the hl query parameter
	Client  *http.Client  // overrides the default transport (tests)
}

// Client talks to a single Invidious instance.
type Client struct {
	base   string
	region string
	locale string
	http   *http.Client
}

// New creates a client for the given instance base URL.
func New(base string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := opts.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		region: opts.Region,
		locale: opts.Locale,
		http:   hc,
	}
}

// Base returns the instance base URL the client was built with.
func (c *Client) Base() string {
	return c.base
}

// Ping performs the lightweight liveness call used by the provider pool.
// Any transport error or non-2xx status counts as down.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/stats", nil)
	if err != nil {
		return &APIError{Sentinel: ErrUnavailable, Operation: "ping", Err: err}
	}
	res, err := c.http.Do(req)
	if err != nil {
		return wrapTransport("ping", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Sentinel: ErrStatus, Operation: "ping", Status: res.StatusCode}
	}
	return nil
}

// Suggestions fetches search suggestions for a query.
func (c *Client) Suggestions(ctx context.Context, query string) (*Suggestions, error) {
	q := url.Values{"q": {query}}
	if c.locale != "" {
		q.Set("hl", c.locale)
	}
	var out Suggestions
	if err := c.getJSON(ctx, "suggestions", "/api/v1/search/suggestions", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchParams shape a search request. Zero Page means page 1.
type SearchParams struct {
	Query string
	Page  int
	Sort  string
	Type  string
}

// Search runs a search against the instance. The result may mix entry
// types; filtering is the aggregator's concern.
func (c *Client) Search(ctx context.Context, p SearchParams) ([]Video, error) {
	q := url.Values{"q": {p.Query}}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	c.localise(q)
	var out []Video
	if err := c.getJSON(ctx, "search", "/api/v1/search", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Trending fetches one page of the instance's trending feed.
func (c *Client) Trending(ctx context.Context, page int) ([]Video, error) {
	q := url.Values{"type": {"default"}}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	c.localise(q)
	var out []Video
	if err := c.getJSON(ctx, "trending", "/api/v1/trending", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Video fetches the canonical metadata record for a single video,
// including its progressive and adaptive format lists.
func (c *Client) Video(ctx context.Context, id string) (*Video, error) {
	q := url.Values{}
	if c.region != "" {
		q.Set("region", c.region)
	}
	var out Video
	if err := c.getJSON(ctx, "video", "/api/v1/videos/"+url.PathEscape(id), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) localise(q url.Values) {
	if c.region != "" {
		q.Set("region", c.region)
	}
	if c.locale != "" {
		q.Set("hl", c.locale)
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, v any) error {
	u := c.base + path
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &APIError{Sentinel: ErrUnavailable, Operation: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return wrapTransport(op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &APIError{Sentinel: ErrStatus, Operation: op, Status: res.StatusCode}
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return &APIError{Sentinel: ErrBadResponse, Operation: op, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

func wrapTransport(op string, err error) error {
	sentinel := ErrUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		sentinel = ErrTimeout
	}
	return &APIError{Sentinel: sentinel, Operation: op, Err: err}
}
