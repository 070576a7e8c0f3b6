package service

import (
	"context"
	"fmt"

	"github.com/andresuchdata/wms-stockout/internal/cache"
	"github.com/andresuchdata/wms-stockout/internal/config"
	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/model"
	"github.com/andresuchdata/wms-stockout/internal/repository"
	"github.com/andresuchdata/wms-stockout/internal/repository/postgres"
	"github.com/andresuchdata/wms-stockout/internal/storage"
	"github.com/rs/zerolog/log"
)

// Bootstrap loads the masters from the data directory and wires the service
// with the configured artifact store, caches and run registry. The returned
// cleanup closes the database pool when one was opened.
func Bootstrap(ctx context.Context, cfg *config.Config) (*StockoutService, func(), error) {
	cleanup := func() {}

	m, err := masters.LoadDir(cfg.App.DataDir)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to load masters from %s: %w", cfg.App.DataDir, err)
	}

	trainer, err := NewTrainer(cfg)
	if err != nil {
		return nil, cleanup, err
	}

	datasets, err := cache.NewDatasetCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("dataset cache unavailable, continuing without cache")
		datasets = cache.NewNoopDatasetCache()
	}
	reports, err := cache.NewQualityReportCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("quality cache unavailable, continuing without cache")
		reports = cache.NewNoopQualityReportCache()
	}

	runs := repository.NewNoopTrainingRunRepository()
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, &cfg.Database)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close database")
			}
		}

		runs, err = postgres.NewTrainingRunRepository(ctx, db)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
	}

	return NewStockoutService(m, trainer, runs, datasets, reports, cfg.App.Periods), cleanup, nil
}

// NewTrainer builds the model trainer over the configured artifact store.
func NewTrainer(cfg *config.Config) (*model.Trainer, error) {
	store, err := storage.New(cfg.Storage, cfg.App.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init artifact storage: %w", err)
	}

	trainerCfg := model.DefaultConfig()
	if cfg.App.ModelFileName != "" {
		trainerCfg.ModelKey = cfg.App.ModelFileName
	}
	if cfg.App.MetricsFile != "" {
		trainerCfg.MetricsKey = cfg.App.MetricsFile
	}
	return model.NewTrainer(store, trainerCfg), nil
}

// InvalidateCaches drops every cached dataset and quality report. Entries are
// keyed by the masters fingerprint, so this only clears entries left behind
// by workbooks that were replaced.
func InvalidateCaches(ctx context.Context, cfg config.CacheConfig) error {
	if !cfg.Enabled {
		return nil
	}

	datasets, err := cache.NewDatasetCache(cfg)
	if err != nil {
		return err
	}
	if err := datasets.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to invalidate dataset cache: %w", err)
	}

	reports, err := cache.NewQualityReportCache(cfg)
	if err != nil {
		return err
	}
	if err := reports.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("failed to invalidate quality cache: %w", err)
	}

	log.Info().Msg("stockout caches invalidated")
	return nil
}
