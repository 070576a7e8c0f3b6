package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/storage"
	"github.com/rs/zerolog/log"
)

// ErrModelNotFound is returned by Load when no model has been persisted.
var ErrModelNotFound = errors.New("model artifacts not found")

// Config holds configuration for the trainer
type Config struct {
	ModelKey   string  // object key of the fitted pipeline
	MetricsKey string  // object key of the metrics summary
	TestSize   float64 // share of groups held out
	Seed       int64
	C          float64
}

// DefaultConfig mirrors the artifact names used by the models directory.
func DefaultConfig() Config {
	return Config{
		ModelKey:   "stockout14d_logreg.json",
		MetricsKey: "metrics.json",
		TestSize:   DefaultTestSize,
		Seed:       DefaultSeed,
		C:          DefaultC,
	}
}

// Trainer fits, persists and reloads the stockout model.
type Trainer struct {
	config Config
	store  storage.ObjectStorage
}

// NewTrainer creates a trainer writing artifacts to store.
func NewTrainer(store storage.ObjectStorage, cfg Config) *Trainer {
	def := DefaultConfig()
	if cfg.ModelKey == "" {
		cfg.ModelKey = def.ModelKey
	}
	if cfg.MetricsKey == "" {
		cfg.MetricsKey = def.MetricsKey
	}
	if cfg.TestSize <= 0 {
		cfg.TestSize = def.TestSize
	}
	if cfg.C <= 0 {
		cfg.C = def.C
	}
	return &Trainer{config: cfg, store: store}
}

// Config returns the effective trainer configuration.
func (t *Trainer) Config() Config {
	return t.config
}

// Train fits on a group split of rows, evaluates on the held-out groups and
// persists both artifacts.
func (t *Trainer) Train(ctx context.Context, rows []domain.Snapshot) (*Pipeline, Metrics, error) {
	start := time.Now()

	features := make([]FeatureRow, len(rows))
	labels := make([]int, len(rows))
	groups := make([]string, len(rows))
	for i, r := range rows {
		features[i] = FeaturesFromSnapshot(r)
		labels[i] = r.Stockout14d
		groups[i] = r.ServicioID
	}

	split, err := GroupShuffleSplit(groups, t.config.TestSize, t.config.Seed)
	if err != nil {
		return nil, Metrics{}, err
	}

	pipe, err := Fit(pick(features, split.Train), pick(labels, split.Train), t.config.C)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("failed to fit model: %w", err)
	}

	testRows := pick(features, split.Test)
	proba := make([]float64, len(testRows))
	for i, r := range testRows {
		if proba[i], err = pipe.PredictProba(r); err != nil {
			return nil, Metrics{}, fmt.Errorf("failed to score test row %d: %w", i, err)
		}
	}

	metrics := Evaluate(pick(labels, split.Test), proba)
	metrics.TrainRows = len(split.Train)
	metrics.TestGroups = len(split.TestGroups)
	metrics.TrainedAt = pipe.TrainedAt

	if err := t.save(ctx, pipe, metrics); err != nil {
		return nil, Metrics{}, err
	}

	log.Info().
		Int("train_rows", metrics.TrainRows).
		Int("test_rows", metrics.TestRows).
		Float64("accuracy", metrics.Accuracy).
		Float64("roc_auc", metrics.ROCAUC).
		Float64("f1_pos", metrics.F1Pos).
		Dur("duration", time.Since(start)).
		Msg("stockout model trained")

	return pipe, metrics, nil
}

// Load reads the persisted pipeline and metrics.
func (t *Trainer) Load(ctx context.Context) (*Pipeline, Metrics, error) {
	var pipe Pipeline
	if err := t.readJSON(ctx, t.config.ModelKey, &pipe); err != nil {
		return nil, Metrics{}, err
	}
	if pipe.Version != ArtifactVersion {
		return nil, Metrics{}, fmt.Errorf("model artifact version %d is not supported (want %d)", pipe.Version, ArtifactVersion)
	}

	var metrics Metrics
	if err := t.readJSON(ctx, t.config.MetricsKey, &metrics); err != nil {
		return nil, Metrics{}, err
	}
	return &pipe, metrics, nil
}

// LoadMetrics reads only the persisted metrics summary.
func (t *Trainer) LoadMetrics(ctx context.Context) (Metrics, error) {
	var metrics Metrics
	if err := t.readJSON(ctx, t.config.MetricsKey, &metrics); err != nil {
		return Metrics{}, err
	}
	return metrics, nil
}

// TrainOrLoad reuses persisted artifacts unless retrain is set or they are
// absent. trained reports whether a new model was fitted.
func (t *Trainer) TrainOrLoad(ctx context.Context, rows []domain.Snapshot, retrain bool) (pipe *Pipeline, metrics Metrics, trained bool, err error) {
	if !retrain {
		pipe, metrics, err = t.Load(ctx)
		if err == nil {
			log.Info().Str("key", t.config.ModelKey).Msg("loaded persisted stockout model")
			return pipe, metrics, false, nil
		}
		if !errors.Is(err, ErrModelNotFound) {
			return nil, Metrics{}, false, err
		}
		log.Info().Msg("no persisted stockout model, training a new one")
	}

	pipe, metrics, err = t.Train(ctx, rows)
	if err != nil {
		return nil, Metrics{}, false, err
	}
	return pipe, metrics, true, nil
}

func (t *Trainer) save(ctx context.Context, pipe *Pipeline, metrics Metrics) error {
	modelPayload, err := json.Marshal(pipe)
	if err != nil {
		return fmt.Errorf("encode model artifact: %w", err)
	}
	metricsPayload, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metrics artifact: %w", err)
	}

	if err := t.store.UploadObject(ctx, t.config.ModelKey, modelPayload); err != nil {
		return fmt.Errorf("failed to persist model: %w", err)
	}
	if err := t.store.UploadObject(ctx, t.config.MetricsKey, metricsPayload); err != nil {
		return fmt.Errorf("failed to persist metrics: %w", err)
	}
	return nil
}

func (t *Trainer) readJSON(ctx context.Context, key string, dst interface{}) error {
	payload, err := t.store.GetObject(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s", ErrModelNotFound, key)
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func pick[T any](values []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
