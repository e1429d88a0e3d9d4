// SPDX-License-Identifier: MIT

// Package stream delivers playable media bytes for a video identifier
// through a prioritized chain of sources, relaying upstream bytes to the
// client incrementally and never buffering a full payload.
package stream

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/metrics"
	"github.com/miru-tv/miru/internal/validate"
)

var (
	// ErrNoSuitableFormat means a source replied but offered no combined
	// audio+video rendition matching the request.
	ErrNoSuitableFormat = errors.New("stream: no suitable format")

	// ErrNoStreamAvailable means every tier of the chain failed.
	ErrNoStreamAvailable = errors.New("stream: no stream available")
)

// Media is an open upstream byte stream plus the header values the relay
// must forward. Body must be closed by the consumer.
type Media struct {
	ContentType   string
	ContentLength int64 // -1 when the upstream did not declare one
	Body          io.ReadCloser
	Tier          string // source tier that produced the stream
}

// Source is one tier of the fallback chain.
type Source interface {
	// Name tags the tier in logs and metrics.
	Name() string
	// Open returns a live media stream for the identifier, honouring the
	// client's quality hint ("highest" or anything else for the low end).
	Open(ctx context.Context, id, quality string) (*Media, error)
}

// Proxy tries its sources in fixed order; the first success wins.
type Proxy struct {
	sources []Source
	logger  zerolog.Logger
}

// NewProxy builds a proxy over the given source chain.
func NewProxy(sources ...Source) *Proxy {
	return &Proxy{
		sources: sources,
		logger:  log.WithComponent("stream"),
	}
}

// Open validates the identifier shape before any network call, then walks
// the source chain. A tier that replied but had no matching combined
// format surfaces as ErrNoSuitableFormat; when every tier fails for other
// reasons the result is ErrNoStreamAvailable.
func (p *Proxy) Open(ctx context.Context, id, quality string) (*Media, error) {
	if err := validate.VideoID(id); err != nil {
		return nil, err
	}

	var lastErr error
	for _, src := range p.sources {
		media, err := src.Open(ctx, id, quality)
		metrics.IncStreamOpen(src.Name(), err)
		if err == nil {
			p.logger.Debug().
				Str(log.FieldVideoID, id).
				Str(log.FieldTier, src.Name()).
				Str(log.FieldEvent, "stream.opened").
				Msg("stream source selected")
			media.Tier = src.Name()
			return media, nil
		}
		p.logger.Debug().
			Err(err).
			Str(log.FieldVideoID, id).
			Str(log.FieldTier, src.Name()).
			Str(log.FieldEvent, "stream.tier_failed").
			Msg("stream source failed, trying next tier")
		lastErr = err
	}

	if errors.Is(lastErr, ErrNoSuitableFormat) {
		return nil, lastErr
	}
	if lastErr != nil {
		return nil, errors.Join(ErrNoStreamAvailable, lastErr)
	}
	return nil, ErrNoStreamAvailable
}
