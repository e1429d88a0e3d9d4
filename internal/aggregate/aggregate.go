// SPDX-License-Identifier: MIT

// Package aggregate translates client queries into provider calls and a
// merged, policy-shaped result. It owns pagination, filtering and
// de-duplication; transport is the invidious client's concern.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/miru-tv/miru/internal/invidious"
	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/metrics"
	"github.com/miru-tv/miru/internal/pool"
	"github.com/miru-tv/miru/internal/validate"
)

// ErrUpstream marks a primary-action failure: the pool was exhausted or a
// reachable provider returned an error or malformed payload.
var ErrUpstream = errors.New("aggregate: upstream failure")

const (
	maxSuggestions = 10
	maxTrending    = 50
	// trendingPages bounds the paged fallback; pages beyond this are never
	// requested even if the accumulator is still short.
	trendingPages = 3
	// minTrendingSeconds filters shorts and clips out of the paged feed.
	minTrendingSeconds = 60
)

// Config wires an Aggregator.
type Config struct {
	Pool            *pool.Pool
	TrendingURL     string        // bulk trending source; "" disables the first tier
	TrendingTimeout time.Duration // budget for the bulk call, default 15s
	StreamOrigin    string        // custom streaming origin for option URLs
	HTTPClient      *http.Client  // bulk source transport override (tests)
}

// Aggregator satisfies search, suggestion, trending and video-detail
// queries against the provider pool.
type Aggregator struct {
	pool         *pool.Pool
	trendingURL  string
	trendingHTTP *http.Client
	streamOrigin string
	logger       zerolog.Logger
}

// New builds an Aggregator from its configuration.
func New(cfg Config) *Aggregator {
	timeout := cfg.TrendingTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Aggregator{
		pool:         cfg.Pool,
		trendingURL:  cfg.TrendingURL,
		trendingHTTP: hc,
		streamOrigin: cfg.StreamOrigin,
		logger:       log.WithComponent("aggregate"),
	}
}

// Suggest returns up to 10 search suggestions. Suggestions are a
// convenience, not a primary action: every failure degrades to an empty
// list, and queries shorter than two characters skip the provider call.
// The length rule counts characters, not bytes, so a single kana or kanji
// is still below the threshold.
func (a *Aggregator) Suggest(ctx context.Context, query string) []string {
	if utf8.RuneCountInString(query) < 2 {
		return []string{}
	}
	client, err := a.pool.Acquire(ctx)
	if err != nil {
		metrics.IncAggregate("suggest", err)
		return []string{}
	}
	s, err := client.Suggestions(ctx, query)
	if err != nil {
		metrics.IncAggregate("suggest", err)
		a.logger.Debug().
			Err(err).
			Str(log.FieldInstance, client.Base()).
			Str(log.FieldEvent, "suggest.degraded").
			Msg("suggestion call failed, returning empty list")
		return []string{}
	}
	metrics.IncAggregate("suggest", nil)
	out := s.Suggestions
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// SuggestRaw returns the provider's raw suggestion payload for the legacy
// endpoint. Failures degrade to an empty payload.
func (a *Aggregator) SuggestRaw(ctx context.Context, query string) *invidious.Suggestions {
	empty := &invidious.Suggestions{Suggestions: []string{}}
	if query == "" {
		return empty
	}
	client, err := a.pool.Acquire(ctx)
	if err != nil {
		return empty
	}
	s, err := client.Suggestions(ctx, query)
	if err != nil {
		return empty
	}
	if s.Suggestions == nil {
		s.Suggestions = []string{}
	}
	return s
}

// SearchParams mirror the client-facing search query.
type SearchParams struct {
	Query string
	Page  int
	Sort  string
	Type  string
}

// Search runs one provider search and filters the result to entries whose
// discriminant is "video". Search is a primary action: failures surface
// as ErrUpstream.
func (a *Aggregator) Search(ctx context.Context, p SearchParams) ([]invidious.Video, error) {
	client, err := a.pool.Acquire(ctx)
	if err != nil {
		metrics.IncAggregate("search", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	results, err := client.Search(ctx, invidious.SearchParams{
		Query: p.Query,
		Page:  p.Page,
		Sort:  p.Sort,
		Type:  p.Type,
	})
	if err != nil {
		metrics.IncAggregate("search", err)
		a.logger.Warn().
			Err(err).
			Str(log.FieldInstance, client.Base()).
			Str(log.FieldEvent, "search.failed").
			Msg("provider search failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	metrics.IncAggregate("search", nil)

	videos := make([]invidious.Video, 0, len(results))
	for _, v := range results {
		if v.IsVideo() {
			videos = append(videos, v)
		}
	}
	return videos, nil
}

// VideoDetail fetches the canonical metadata for one video and attaches
// the synthesized streaming options. The identifier shape is checked
// before any network call.
func (a *Aggregator) VideoDetail(ctx context.Context, id string) (*VideoDetail, error) {
	if err := validate.VideoID(id); err != nil {
		return nil, err
	}
	client, err := a.pool.Acquire(ctx)
	if err != nil {
		metrics.IncAggregate("video", err)
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	v, err := client.Video(ctx, id)
	if err != nil {
		metrics.IncAggregate("video", err)
		a.logger.Warn().
			Err(err).
			Str(log.FieldVideoID, id).
			Str(log.FieldInstance, client.Base()).
			Str(log.FieldEvent, "video.failed").
			Msg("provider video lookup failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	metrics.IncAggregate("video", nil)

	return &VideoDetail{
		Video:            *v,
		StreamingOptions: BuildStreamingOptions(a.streamOrigin, id, v),
	}, nil
}
