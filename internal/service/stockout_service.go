package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/wms-stockout/internal/cache"
	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/model"
	"github.com/andresuchdata/wms-stockout/internal/pipeline/snapshot"
	"github.com/andresuchdata/wms-stockout/internal/quality"
	"github.com/andresuchdata/wms-stockout/internal/repository"
	"github.com/rs/zerolog/log"
)

const DefaultPeriods = 12

var (
	// ErrSnapshotNotFound is returned when no dataset row matches a service and period.
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrUnknownMaster is returned for a master name other than clientes, proveedores or servicios.
	ErrUnknownMaster = errors.New("unknown master")
	// ErrInvalidInput is returned for negative form overrides.
	ErrInvalidInput = errors.New("invalid input")
)

// TrainResult is the outcome of a Train call.
type TrainResult struct {
	Metrics model.Metrics         `json:"metrics"`
	Trained bool                  `json:"trained"`
	Dataset domain.DatasetSummary `json:"dataset"`
	Run     *domain.TrainingRun   `json:"run,omitempty"`
}

// StockoutService serves the masters, the synthesized dataset and the model.
// The masters are immutable once loaded; the fitted model is swapped under a lock.
type StockoutService struct {
	masters  *masters.Masters
	trainer  *model.Trainer
	runs     repository.TrainingRunRepository
	datasets cache.DatasetCache
	reports  cache.QualityReportCache
	periods  int

	trainMu sync.Mutex
	mu      sync.RWMutex
	pipe    *model.Pipeline
	metrics *model.Metrics
}

func NewStockoutService(
	m *masters.Masters,
	trainer *model.Trainer,
	runs repository.TrainingRunRepository,
	datasets cache.DatasetCache,
	reports cache.QualityReportCache,
	defaultPeriods int,
) *StockoutService {
	if runs == nil {
		runs = repository.NewNoopTrainingRunRepository()
	}
	if datasets == nil {
		datasets = cache.NewNoopDatasetCache()
	}
	if reports == nil {
		reports = cache.NewNoopQualityReportCache()
	}
	if defaultPeriods <= 0 {
		defaultPeriods = DefaultPeriods
	}
	return &StockoutService{
		masters:  m,
		trainer:  trainer,
		runs:     runs,
		datasets: datasets,
		reports:  reports,
		periods:  defaultPeriods,
	}
}

// Periods is the number of periods used when a caller passes none.
func (s *StockoutService) Periods() int {
	return s.periods
}

// Master returns the normalized table of one master.
func (s *StockoutService) Master(name string) (*domain.Table, error) {
	master, ok := s.masters.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaster, name)
	}
	return master.Table, nil
}

// Dictionaries returns the data dictionary of each master keyed by master name.
func (s *StockoutService) Dictionaries() map[string]*domain.Table {
	out := make(map[string]*domain.Table, 3)
	for _, master := range s.masters.All() {
		out[master.Name] = master.Dictionary
	}
	return out
}

func (s *StockoutService) Quality(ctx context.Context) quality.Report {
	if report, ok, err := s.reports.GetReport(ctx, s.masters.Fingerprint); err == nil && ok {
		return *report
	} else if err != nil {
		log.Warn().Err(err).Msg("quality: cache get report failed")
	}

	report := quality.Build(s.masters)

	if err := s.reports.SetReport(ctx, s.masters.Fingerprint, &report); err != nil {
		log.Warn().Err(err).Msg("quality: cache set report failed")
	}
	return report
}

// Dataset synthesizes (or reads from cache) the snapshot dataset.
func (s *StockoutService) Dataset(ctx context.Context, periods int) ([]domain.Snapshot, error) {
	if periods <= 0 {
		periods = s.periods
	}

	if rows, ok, err := s.datasets.Get(ctx, s.masters.Fingerprint, periods); err == nil && ok {
		return rows, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dataset: cache get failed")
	}

	rows, err := snapshot.NewSynthesizer(snapshot.Config{Periods: periods}).Build(s.masters)
	if err != nil {
		return nil, err
	}

	if err := s.datasets.Set(ctx, s.masters.Fingerprint, periods, rows); err != nil {
		log.Warn().Err(err).Msg("dataset: cache set failed")
	}
	return rows, nil
}

func (s *StockoutService) DatasetSummary(ctx context.Context, periods int) (domain.DatasetSummary, error) {
	if periods <= 0 {
		periods = s.periods
	}
	rows, err := s.Dataset(ctx, periods)
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	return snapshot.Summarize(rows, periods), nil
}

// Train fits the model on a fresh dataset, or reuses the persisted one unless
// retrain is set. Every actual fit is recorded in the run registry.
func (s *StockoutService) Train(ctx context.Context, periods int, retrain bool) (*TrainResult, error) {
	if periods <= 0 {
		periods = s.periods
	}

	s.trainMu.Lock()
	defer s.trainMu.Unlock()

	rows, err := s.Dataset(ctx, periods)
	if err != nil {
		return nil, err
	}
	summary := snapshot.Summarize(rows, periods)

	pipe, metrics, trained, err := s.trainer.TrainOrLoad(ctx, rows, retrain)
	if err != nil {
		return nil, err
	}
	s.setModel(pipe, metrics)

	result := &TrainResult{Metrics: metrics, Trained: trained, Dataset: summary}
	if trained {
		run := &domain.TrainingRun{
			TrainedAt:    metrics.TrainedAt,
			Periods:      periods,
			Rows:         summary.Rows,
			Services:     summary.Services,
			PositiveRate: summary.PositiveRate,
			Accuracy:     metrics.Accuracy,
			ROCAUC:       metrics.ROCAUC,
			PrecisionPos: metrics.PrecisionPos,
			RecallPos:    metrics.RecallPos,
			F1Pos:        metrics.F1Pos,
			ModelKey:     s.trainer.Config().ModelKey,
		}
		if run.TrainedAt.IsZero() {
			run.TrainedAt = time.Now().UTC()
		}
		if err := s.runs.Save(ctx, run); err != nil {
			log.Warn().Err(err).Msg("train: failed to record training run")
		} else {
			result.Run = run
		}
	}

	return result, nil
}

// Metrics returns the metrics of the active model, loading them if needed.
func (s *StockoutService) Metrics(ctx context.Context) (model.Metrics, error) {
	s.mu.RLock()
	metrics := s.metrics
	s.mu.RUnlock()
	if metrics != nil {
		return *metrics, nil
	}
	return s.trainer.LoadMetrics(ctx)
}

func (s *StockoutService) Runs(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	return s.runs.ListRecent(ctx, repository.ClampLimit(limit))
}

// PredictSnapshot scores the dataset row of servicioID at periodo.
func (s *StockoutService) PredictSnapshot(ctx context.Context, servicioID string, periodo int) (model.Prediction, error) {
	pipe, row, err := s.prepare(ctx, servicioID, periodo)
	if err != nil {
		return model.Prediction{}, err
	}
	return pipe.PredictSnapshot(row)
}

// PredictForm scores the dataset row of servicioID at periodo with the
// operator's overrides applied.
func (s *StockoutService) PredictForm(ctx context.Context, servicioID string, periodo int, in model.FormInput) (model.Prediction, error) {
	if in.StockActual < 0 || in.DemandaDiariaEst < 0 || in.DiasHastaRecepcion < 0 || in.RecepcionPendiente < 0 {
		return model.Prediction{}, fmt.Errorf("%w: form values must be non-negative", ErrInvalidInput)
	}

	pipe, row, err := s.prepare(ctx, servicioID, periodo)
	if err != nil {
		return model.Prediction{}, err
	}
	return pipe.PredictForm(row, in)
}

// Keys lists the distinct service IDs and periods of the prediction dataset.
func (s *StockoutService) Keys(ctx context.Context) (servicios []string, periodos []int, err error) {
	rows, err := s.Dataset(ctx, s.periods)
	if err != nil {
		return nil, nil, err
	}

	seenSvc := make(map[string]struct{})
	seenPer := make(map[int]struct{})
	for _, r := range rows {
		if _, ok := seenSvc[r.ServicioID]; !ok {
			seenSvc[r.ServicioID] = struct{}{}
			servicios = append(servicios, r.ServicioID)
		}
		if _, ok := seenPer[r.Periodo]; !ok {
			seenPer[r.Periodo] = struct{}{}
			periodos = append(periodos, r.Periodo)
		}
	}
	sort.Strings(servicios)
	sort.Ints(periodos)
	return servicios, periodos, nil
}

func (s *StockoutService) prepare(ctx context.Context, servicioID string, periodo int) (*model.Pipeline, model.FeatureRow, error) {
	pipe, err := s.activeModel(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.Dataset(ctx, s.periods)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		if r.ServicioID == servicioID && r.Periodo == periodo {
			return pipe, model.FeaturesFromSnapshot(r), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: servicio %q periodo %d", ErrSnapshotNotFound, servicioID, periodo)
}

func (s *StockoutService) activeModel(ctx context.Context) (*model.Pipeline, error) {
	s.mu.RLock()
	pipe := s.pipe
	s.mu.RUnlock()
	if pipe != nil {
		return pipe, nil
	}

	pipe, metrics, err := s.trainer.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.setModel(pipe, metrics)
	return pipe, nil
}

func (s *StockoutService) setModel(pipe *model.Pipeline, metrics model.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe = pipe
	s.metrics = &metrics
}
