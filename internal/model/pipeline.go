package model

import (
	"fmt"
	"time"
)

// ArtifactVersion is bumped whenever the persisted layout changes.
const ArtifactVersion = 1

// Pipeline is the fitted preprocessing plus classifier, persisted as JSON.
type Pipeline struct {
	Version        int                 `json:"version"`
	FeatureColumns []string            `json:"feature_columns"`
	Preprocessor   *Preprocessor       `json:"preprocessor"`
	Classifier     *LogisticRegression `json:"classifier"`
	TrainedAt      time.Time           `json:"trained_at"`
}

// Prediction is a scored row with its risk category and message.
type Prediction struct {
	Probability float64 `json:"prob"`
	Risk        string  `json:"risk"`
	Message     string  `json:"mensaje"`
	HorizonDays int     `json:"horizonte"`
}

// FormInput carries the operator overrides of a form prediction.
type FormInput struct {
	StockActual        int     `json:"stock_actual"`
	DemandaDiariaEst   float64 `json:"demanda_diaria_est"`
	DiasHastaRecepcion int     `json:"dias_hasta_recepcion"`
	RecepcionPendiente int     `json:"recepcion_pendiente"`
	HorizonDays        int     `json:"horizonte"`
}

// Fit trains a pipeline on feature rows and binary labels.
func Fit(rows []FeatureRow, y []int, c float64) (*Pipeline, error) {
	pre, err := FitPreprocessor(rows)
	if err != nil {
		return nil, err
	}
	X, err := pre.TransformAll(rows)
	if err != nil {
		return nil, err
	}

	clf := NewLogisticRegression()
	if c > 0 {
		clf.C = c
	}
	if err := clf.Fit(X, y); err != nil {
		return nil, err
	}

	return &Pipeline{
		Version:        ArtifactVersion,
		FeatureColumns: append([]string(nil), FeatureColumns...),
		Preprocessor:   pre,
		Classifier:     clf,
		TrainedAt:      time.Now().UTC(),
	}, nil
}

// PredictProba returns the stockout probability of one row.
func (p *Pipeline) PredictProba(row FeatureRow) (float64, error) {
	if p == nil || p.Preprocessor == nil || p.Classifier == nil {
		return 0, fmt.Errorf("model pipeline is not fitted")
	}
	x, err := p.Preprocessor.Transform(row)
	if err != nil {
		return 0, err
	}
	return p.Classifier.PredictProba(x)
}

// PredictSnapshot scores a dataset row at the default horizon.
func (p *Pipeline) PredictSnapshot(row FeatureRow) (Prediction, error) {
	return p.predict(row, DefaultHorizonDays)
}

// PredictForm scores base with the operator's stock and receipt overrides.
func (p *Pipeline) PredictForm(base FeatureRow, in FormInput) (Prediction, error) {
	row := base.Clone()
	row["StockActual"] = float64(in.StockActual)
	row["DemandaDiariaEst"] = in.DemandaDiariaEst
	row["DiasHastaRecepcion"] = float64(in.DiasHastaRecepcion)
	row["RecepcionPendiente"] = float64(in.RecepcionPendiente)

	horizon := in.HorizonDays
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	return p.predict(row, horizon)
}

func (p *Pipeline) predict(row FeatureRow, horizon int) (Prediction, error) {
	prob, err := p.PredictProba(row)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{
		Probability: prob,
		Risk:        string(RiskLevelFor(prob)),
		Message:     RiskMessage(prob, horizon),
		HorizonDays: horizon,
	}, nil
}
