// Command seed nạp lại catalog từ bộ dữ liệu phim Wikipedia.
// Chạy: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/caarlos0/env"

	"github.com/Kevindaniel6700/movie-time/config"
	catalogsvc "github.com/Kevindaniel6700/movie-time/internal/api/catalog/service"
	"github.com/Kevindaniel6700/movie-time/internal/database"
	"github.com/Kevindaniel6700/movie-time/internal/logger"
	"github.com/Kevindaniel6700/movie-time/internal/seed"
)

// seedConfig là cấu hình riêng của lệnh seed
type seedConfig struct {
	SourceURL     string `env:"SEED_SOURCE_URL" envDefault:"https://raw.githubusercontent.com/prust/wikipedia-movie-data/master/movies.json"`
	SourceFile    string `env:"SEED_SOURCE_FILE" envDefault:"movies_large.json"`
	MaxMovies     int    `env:"SEED_MAX_MOVIES" envDefault:"500"`
	MinYear       int    `env:"SEED_MIN_YEAR" envDefault:"2000"`
	MinCandidates int    `env:"SEED_MIN_CANDIDATES" envDefault:"300"`
}

func main() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Close()

	if err := run(context.Background()); err != nil {
		logger.GetAppLogger().WithError(err).Error("Seed failed")
		logger.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	log := logger.GetAppLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	seedCfg := seedConfig{}
	if err := env.Parse(&seedCfg); err != nil {
		return fmt.Errorf("lỗi khi parse seed config: %w", err)
	}

	if err := seed.Download(ctx, seedCfg.SourceURL, seedCfg.SourceFile); err != nil {
		return err
	}
	f, err := os.Open(seedCfg.SourceFile)
	if err != nil {
		return err
	}
	defer f.Close()
	all, err := seed.LoadSource(f)
	if err != nil {
		return err
	}
	log.Infof("Total movies in file: %d", len(all))

	now := uint64(time.Now().UnixNano())
	rng := rand.New(rand.NewPCG(now, now>>1))
	selected := seed.SelectMovies(all, seed.SelectOptions{
		MaxMovies:     seedCfg.MaxMovies,
		MinYear:       seedCfg.MinYear,
		MinCandidates: seedCfg.MinCandidates,
	}, rng)
	log.Infof("Selected %d movies for seeding", len(selected))

	client, err := database.GetInstance(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = database.CloseInstance(client) }()

	if err := catalogsvc.RegisterMongoCollections(ctx, client.Database(cfg.MongoDB_DBName)); err != nil {
		return err
	}
	cols, err := catalogsvc.CollectionsFromRegistry()
	if err != nil {
		return err
	}

	summary, err := seed.NewSeeder(cols, rng).Run(ctx, selected)
	if err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"genres":    summary.Genres,
		"actors":    summary.Actors,
		"directors": summary.Directors,
		"movies":    summary.Movies,
		"skipped":   summary.Skipped,
	}).Info("Database seeded successfully")
	return nil
}
