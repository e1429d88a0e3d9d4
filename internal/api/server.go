// SPDX-License-Identifier: MIT

// Package api provides the HTTP surface of the miru daemon.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/miru-tv/miru/internal/aggregate"
	"github.com/miru-tv/miru/internal/invidious"
	"github.com/miru-tv/miru/internal/store"
	"github.com/miru-tv/miru/internal/stream"
)

// Aggregator answers metadata queries against the provider pool.
type Aggregator interface {
	Suggest(ctx context.Context, query string) []string
	SuggestRaw(ctx context.Context, query string) *invidious.Suggestions
	Search(ctx context.Context, p aggregate.SearchParams) ([]invidious.Video, error)
	Trending(ctx context.Context) ([]invidious.Video, error)
	VideoDetail(ctx context.Context, id string) (*aggregate.VideoDetail, error)
}

// Streamer opens a media stream for a video identifier.
type Streamer interface {
	Open(ctx context.Context, id, quality string) (*stream.Media, error)
}

// Embedder builds playback descriptors for embedding clients.
type Embedder interface {
	Embed(ctx context.Context, id string) (*stream.Embed, error)
}

// Extractor exposes direct-extraction metadata without opening a stream.
type Extractor interface {
	Info(ctx context.Context, id, quality string) (*stream.VideoInfo, error)
}

// Persistence is the watch-history and preferences store.
type Persistence interface {
	AddHistory(ctx context.Context, userID string, e store.HistoryEntry) (*store.HistoryEntry, error)
	History(ctx context.Context, userID string) ([]store.HistoryEntry, error)
	RemoveHistory(ctx context.Context, userID, entryID string) error
	ClearHistory(ctx context.Context, userID string) error
	Preferences(ctx context.Context, userID string) (*store.Preferences, error)
	UpdatePreferences(ctx context.Context, userID string, upd store.PreferencesUpdate) (*store.Preferences, error)
}

// Config wires a Server.
type Config struct {
	Aggregator Aggregator
	Streamer   Streamer
	Embedder   Embedder  // nil disables /api/embed
	Extractor  Extractor // nil disables /api/ytdl
	Store      Persistence

	RateLimitEnabled bool
	RateLimitRPM     int
}

// Server carries the handler dependencies. Construct with New, mount with
// Router.
type Server struct {
	agg     Aggregator
	proxy   Streamer
	embed   Embedder
	extract Extractor
	store   Persistence

	rateLimitEnabled bool
	rateLimitRPM     int
}

// New builds the API server.
func New(cfg Config) *Server {
	rpm := cfg.RateLimitRPM
	if rpm <= 0 {
		rpm = 300
	}
	return &Server{
		agg:              cfg.Aggregator,
		proxy:            cfg.Streamer,
		embed:            cfg.Embedder,
		extract:          cfg.Extractor,
		store:            cfg.Store,
		rateLimitEnabled: cfg.RateLimitEnabled,
		rateLimitRPM:     rpm,
	}
}

// Router assembles the chi router with the canonical middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(requestMetrics)
	if s.rateLimitEnabled {
		r.Use(httprate.Limit(
			s.rateLimitRPM,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(rateLimited),
		))
	}

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search/suggestions", s.handleSuggestions)
		r.Get("/suggestions", s.handleLegacySuggestions)
		r.Get("/search", s.handleSearch)
		r.Get("/trending", s.handleTrending)
		r.Get("/video/{videoId}", s.handleVideo)
		r.Get("/stream/{videoId}", s.handleStream)
		if s.embed != nil {
			r.Get("/embed/{videoId}", s.handleEmbed)
		}
		if s.extract != nil {
			r.Get("/ytdl/{videoId}", s.handleYtdl)
		}

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.handleHistoryList)
			r.Post("/", s.handleHistoryAdd)
			r.Delete("/", s.handleHistoryClear)
			r.Delete("/{entryId}", s.handleHistoryRemove)
		})
		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", s.handlePreferencesGet)
			r.Put("/", s.handlePreferencesPut)
		})
	})

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
