// Singwise - Karaoke Song Recommendations from Listening History
// Copyright 2026 Singwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/singwise/singwise

// Command server runs the Singwise recommendation API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/singwise/singwise/internal/api"
	"github.com/singwise/singwise/internal/catalog"
	"github.com/singwise/singwise/internal/config"
	"github.com/singwise/singwise/internal/logging"
	"github.com/singwise/singwise/internal/metrics"
	"github.com/singwise/singwise/internal/recommend"
	"github.com/singwise/singwise/internal/similarity"
	"github.com/singwise/singwise/internal/supervisor"
	"github.com/singwise/singwise/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("configuration load failed")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("catalog", cfg.Data.CatalogPath).
		Msg("singwise starting")

	engine := recommend.New(recommend.Options{
		Config: recommend.Config{
			Weights: recommend.Weights{
				Affinity:      cfg.Engine.Weights.Affinity,
				Collaborative: cfg.Engine.Weights.Collaborative,
				Popularity:    cfg.Engine.Weights.Popularity,
				Availability:  cfg.Engine.Weights.Availability,
				Genre:         cfg.Engine.Weights.Genre,
				Decade:        cfg.Engine.Weights.Decade,
			},
			ArtistCap:       cfg.Engine.ArtistCap,
			AffinityLimit:   cfg.Engine.AffinityLimit,
			GenerateLimit:   cfg.Engine.GenerateLimit,
			CrowdLimit:      cfg.Engine.CrowdLimit,
			BrandSaturation: cfg.Engine.BrandSaturation,
		},
		MatchThreshold: cfg.Engine.MatchThreshold,
		MatchWorkers:   cfg.Engine.MatchWorkers,
		PlaySaturation: cfg.Engine.PlaySaturation,
	})

	loader := &snapshotLoader{engine: engine, data: cfg.Data}
	entries, pairs, err := loader.Reload(context.Background())
	if err != nil {
		logging.Fatal().Err(err).Msg("initial snapshot load failed")
	}
	metrics.RecordSnapshotReload("success", entries, pairs)

	handler := api.NewHandler(engine, cfg.API.MaxPageSize, cfg.API.RequestTimeout)
	router := api.NewRouter(handler, api.RouterConfig{
		CORSOrigins:        cfg.API.CORSOrigins,
		RateLimitPerMinute: cfg.API.RateLimitPerMinute,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree := supervisor.NewTree(logging.NewSlogLogger(), treeCfg)
	tree.AddAPIService(services.NewHTTPService(server, cfg.Server.Addr(), cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewReloadService(loader, cfg.Data.ReloadInterval))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tree.Serve(ctx); err != nil && err != context.Canceled {
		logging.Error().Err(err).Msg("supervisor terminated")
		os.Exit(1)
	}
	logging.Info().Msg("singwise stopped")
}

// snapshotLoader reads the catalog and similarity snapshots from disk and
// installs them on the engine. It backs both startup loading and the
// periodic reload service.
type snapshotLoader struct {
	engine *recommend.Engine
	data   config.DataConfig
}

// Reload implements services.SnapshotReloader.
func (l *snapshotLoader) Reload(_ context.Context) (int, int, error) {
	cat, err := catalog.Load(l.data.CatalogPath)
	if err != nil {
		return 0, 0, err
	}
	sim, err := similarity.Load(l.data.SimilarityPath)
	if err != nil {
		return 0, 0, err
	}

	l.engine.SetSnapshot(cat, sim)
	return cat.Len(), sim.Len(), nil
}
