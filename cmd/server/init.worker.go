package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Kevindaniel6700/movie-time/internal/global"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
	"github.com/Kevindaniel6700/movie-time/internal/omdb"
	"github.com/Kevindaniel6700/movie-time/internal/worker"
)

// InitPosterEnrichment tạo worker và chạy một lượt trong goroutine riêng.
// Lỗi hoặc panic trong worker không làm dừng server.
func InitPosterEnrichment(ctx context.Context) (*worker.PosterEnrichmentWorker, error) {
	cfg := global.MongoDB_ServerConfig
	log := logger.GetAppLogger()

	movies, err := global.RegistryCollections.MustGet(global.MongoDB_ColNames.Movies)
	if err != nil {
		return nil, err
	}

	var lookup worker.PosterLookup
	enabled := cfg.EnablePosterEnrichment
	if enabled {
		omdbConfig := omdb.ConfigFrom(cfg)
		if omdbConfig.APIKey == "" {
			log.WithError(omdb.ErrMissingAPIKey).Warn("🖼️ [POSTER_ENRICHMENT] Thiếu OMDB_API_KEY, bỏ qua enrichment")
			enabled = false
		} else {
			lookup = omdb.NewClient(omdbConfig)
		}
	}

	enrichmentWorker := worker.NewPosterEnrichmentWorker(movies, lookup, worker.PosterEnrichmentOptions{
		Enabled:       enabled,
		RatePerSecond: cfg.PosterLookupRate,
		Registerer:    prometheus.DefaultRegisterer,
	})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.WithFields(map[string]interface{}{
					"panic": r,
				}).Error("🖼️ [POSTER_ENRICHMENT] Worker goroutine panic")
			}
		}()

		log.Info("🖼️ [POSTER_ENRICHMENT] Starting poster enrichment...")
		enrichmentWorker.Start(ctx)
		status := enrichmentWorker.Status()
		log.WithFields(map[string]interface{}{
			"scanned":  status.Scanned,
			"enriched": status.Enriched,
			"skipped":  status.Skipped,
			"failed":   status.Failed,
		}).Info("🖼️ [POSTER_ENRICHMENT] Finished")
	}()

	return enrichmentWorker, nil
}
