// SPDX-License-Identifier: MIT
package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/miru-tv/miru/internal/invidious"
	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/metrics"
)

// Trending returns at most 50 de-duplicated trending videos. Two tiers are
// tried in fixed order: the distinguished bulk source first, then paged
// collection from the provider pool. The bulk tier swallows its own
// failures; only an unusable fallback surfaces ErrUpstream.
func (a *Aggregator) Trending(ctx context.Context) ([]invidious.Video, error) {
	if a.trendingURL != "" {
		videos, err := a.bulkTrending(ctx)
		metrics.IncTrendingSource("bulk", err)
		if err == nil {
			return truncate(videos, maxTrending), nil
		}
		a.logger.Warn().
			Err(err).
			Str(log.FieldEvent, "trending.bulk_failed").
			Msg("bulk trending source failed, falling back to provider pages")
	}

	videos, err := a.pagedTrending(ctx)
	metrics.IncTrendingSource("paged", err)
	return videos, err
}

// bulkTrending queries the high-capacity aggregation source. Any status,
// transport or shape problem is an error; the caller falls back.
func (a *Aggregator) bulkTrending(ctx context.Context) ([]invidious.Video, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.trendingURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "miru/1.0")

	res, err := a.trendingHTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("bulk trending: HTTP %d", res.StatusCode)
	}

	// Anything that is not a JSON array counts as malformed.
	var videos []invidious.Video
	if err := json.NewDecoder(res.Body).Decode(&videos); err != nil {
		return nil, fmt.Errorf("bulk trending: decode: %w", err)
	}
	return videos, nil
}

// pagedTrending collects provider trending pages in ascending order,
// keeping only proper videos longer than a minute. A failed page stops
// further paging but keeps what was already accumulated; only an empty
// accumulator after a failure is an error.
func (a *Aggregator) pagedTrending(ctx context.Context) ([]invidious.Video, error) {
	var (
		accumulated []invidious.Video
		pageErr     error
	)
	for page := 1; page <= trendingPages && len(accumulated) < maxTrending; page++ {
		client, err := a.pool.Acquire(ctx)
		if err != nil {
			pageErr = err
			break
		}
		results, err := client.Trending(ctx, page)
		if err != nil {
			a.logger.Warn().
				Err(err).
				Int(log.FieldPage, page).
				Str(log.FieldInstance, client.Base()).
				Str(log.FieldEvent, "trending.page_failed").
				Msg("trending page failed, stopping pagination")
			pageErr = err
			break
		}
		for _, v := range results {
			if v.IsVideo() && v.LengthSeconds > minTrendingSeconds {
				accumulated = append(accumulated, v)
			}
		}
	}

	if len(accumulated) == 0 && pageErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, pageErr)
	}
	return truncate(dedupeByID(accumulated), maxTrending), nil
}

// dedupeByID keeps the first occurrence of each video identifier,
// preserving input order.
func dedupeByID(videos []invidious.Video) []invidious.Video {
	seen := make(map[string]struct{}, len(videos))
	out := make([]invidious.Video, 0, len(videos))
	for _, v := range videos {
		if _, ok := seen[v.VideoID]; ok {
			continue
		}
		seen[v.VideoID] = struct{}{}
		out = append(out, v)
	}
	return out
}

func truncate(videos []invidious.Video, limit int) []invidious.Video {
	if len(videos) > limit {
		return videos[:limit]
	}
	if videos == nil {
		return []invidious.Video{}
	}
	return videos
}
