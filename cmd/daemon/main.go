// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/kkdai/youtube/v2"

	"github.com/miru-tv/miru/internal/aggregate"
	"github.com/miru-tv/miru/internal/api"
	"github.com/miru-tv/miru/internal/config"
	"github.com/miru-tv/miru/internal/invidious"
	mirulog "github.com/miru-tv/miru/internal/log"
	"github.com/miru-tv/miru/internal/pool"
	"github.com/miru-tv/miru/internal/store"
	"github.com/miru-tv/miru/internal/stream"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

const shutdownGrace = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	mirulog.Configure(mirulog.Config{
		Level:   "info",
		Service: "miru",
		Version: version,
	})
	logger := mirulog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Msg("failed to load configuration")
	}

	mirulog.Configure(mirulog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: version,
	})

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.Listen).
		Msg("starting miru")
	logger.Info().Msgf("→ Providers: %d instances (region %s, hl %s)", len(cfg.Instances), cfg.Region, cfg.Locale)
	logger.Info().Msgf("→ Trending source: %s", cfg.TrendingURL)
	logger.Info().Msgf("→ Stream origin: %s", cfg.StreamOrigin)
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)

	clients := make([]*invidious.Client, 0, len(cfg.Instances))
	for _, base := range cfg.Instances {
		clients = append(clients, invidious.New(base, invidious.Options{
			Timeout: cfg.RequestTimeout,
			Region:  cfg.Region,
			Locale:  cfg.Locale,
		}))
	}
	providerPool := pool.New(clients, cfg.ProbeTimeout)

	aggregator := aggregate.New(aggregate.Config{
		Pool:            providerPool,
		TrendingURL:     cfg.TrendingURL,
		TrendingTimeout: cfg.TrendingTimeout,
		StreamOrigin:    cfg.StreamOrigin,
	})

	extraction := stream.NewExtractionSource(&youtube.Client{})

	var sources []stream.Source
	var custom *stream.CustomSource
	if cfg.StreamOrigin != "" {
		custom = stream.NewCustomSource(cfg.StreamOrigin, cfg.StreamTimeout)
		sources = append(sources, custom)
	}
	sources = append(sources, extraction)
	proxy := stream.NewProxy(sources...)

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.data_dir_failed").
			Str(mirulog.FieldPath, cfg.DataDir).
			Msg("failed to create data directory")
	}
	st, err := store.Open(filepath.Join(cfg.DataDir, "miru.sqlite"))
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "startup.store_failed").
			Msg("failed to open the store")
	}
	defer func() { _ = st.Close() }()

	apiCfg := api.Config{
		Aggregator:       aggregator,
		Streamer:         proxy,
		Extractor:        extraction,
		Store:            st,
		RateLimitEnabled: cfg.RateLimitEnabled,
		RateLimitRPM:     cfg.RateLimitRPM,
	}
	if custom != nil {
		apiCfg.Embedder = custom
	}
	server := api.New(apiCfg)

	apiSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Listen).Msg("API server listening")
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	var metricsSrv *http.Server
	if cfg.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.MetricsListen).Msg("metrics server listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Str("event", "shutdown").Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()

		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("API server shutdown was not clean")
		}
		if metricsSrv != nil {
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics server shutdown was not clean")
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "daemon.failed").
			Msg("daemon failed")
	}
	logger.Info().Msg("server exiting")
}
