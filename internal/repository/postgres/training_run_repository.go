// internal/repository/postgres/training_run_repository.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/repository"
)

const createTrainingRunsTable = `
	CREATE TABLE IF NOT EXISTS stockout_training_runs (
		id            BIGSERIAL PRIMARY KEY,
		trained_at    TIMESTAMPTZ NOT NULL,
		periods       INTEGER NOT NULL,
		rows          INTEGER NOT NULL,
		services      INTEGER NOT NULL,
		positive_rate DOUBLE PRECISION NOT NULL,
		accuracy      DOUBLE PRECISION NOT NULL,
		roc_auc       DOUBLE PRECISION NOT NULL,
		precision_pos DOUBLE PRECISION NOT NULL,
		recall_pos    DOUBLE PRECISION NOT NULL,
		f1_pos        DOUBLE PRECISION NOT NULL,
		model_key     TEXT NOT NULL
	)
`

type trainingRunRepository struct {
	db *DB
}

// NewTrainingRunRepository creates the runs table if needed.
func NewTrainingRunRepository(ctx context.Context, db *DB) (repository.TrainingRunRepository, error) {
	if _, err := db.ExecContext(ctx, createTrainingRunsTable); err != nil {
		return nil, fmt.Errorf("failed to create stockout_training_runs: %w", err)
	}
	return &trainingRunRepository{db: db}, nil
}

func (r *trainingRunRepository) Save(ctx context.Context, run *domain.TrainingRun) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO stockout_training_runs (
				trained_at, periods, rows, services, positive_rate,
				accuracy, roc_auc, precision_pos, recall_pos, f1_pos, model_key
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING id
		`

		err := tx.QueryRowContext(
			ctx,
			query,
			run.TrainedAt,
			run.Periods,
			run.Rows,
			run.Services,
			run.PositiveRate,
			run.Accuracy,
			run.ROCAUC,
			run.PrecisionPos,
			run.RecallPos,
			run.F1Pos,
			run.ModelKey,
		).Scan(&run.ID)
		if err != nil {
			return fmt.Errorf("failed to insert training run: %w", err)
		}
		return nil
	})
}

func (r *trainingRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	query := `
		SELECT id, trained_at, periods, rows, services, positive_rate,
		       accuracy, roc_auc, precision_pos, recall_pos, f1_pos, model_key
		FROM stockout_training_runs
		ORDER BY trained_at DESC, id DESC
		LIMIT $1
	`

	runs := []domain.TrainingRun{}
	if err := r.db.SelectContext(ctx, &runs, query, repository.ClampLimit(limit)); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	return runs, nil
}
