// internal/repository/training_run_repository.go
package repository

import (
	"context"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// DefaultRunsLimit is the page size of ListRecent when none is given.
const DefaultRunsLimit = 20

type TrainingRunRepository interface {
	Save(ctx context.Context, run *domain.TrainingRun) error
	ListRecent(ctx context.Context, limit int) ([]domain.TrainingRun, error)
}

type noopTrainingRunRepository struct{}

// NewNoopTrainingRunRepository is used when no database is configured.
func NewNoopTrainingRunRepository() TrainingRunRepository {
	return noopTrainingRunRepository{}
}

func (noopTrainingRunRepository) Save(ctx context.Context, run *domain.TrainingRun) error {
	return nil
}

func (noopTrainingRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	return []domain.TrainingRun{}, nil
}

// ClampLimit bounds a caller-supplied page size to (0, 200].
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultRunsLimit
	case limit > 200:
		return 200
	default:
		return limit
	}
}
