package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// ErrSingleClass is returned when the training labels hold one class only.
var ErrSingleClass = errors.New("training labels contain a single class")

// Classifier defaults.
const (
	DefaultC             = 0.5
	DefaultMaxIterations = 2000
	gradientTolerance    = 1e-6
)

// LogisticRegression is an L2-regularized, class-balanced binary logistic
// regression. The intercept is penalized like any other weight.
type LogisticRegression struct {
	C             float64    `json:"C"`
	MaxIterations int        `json:"max_iterations"`
	ClassWeights  [2]float64 `json:"class_weights"`
	Coefficients  []float64  `json:"coefficients"`
	Intercept     float64    `json:"intercept"`
}

// NewLogisticRegression returns an unfitted classifier with default settings.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{C: DefaultC, MaxIterations: DefaultMaxIterations}
}

// BalancedClassWeights returns n / (2 * count(class)) for classes 0 and 1.
func BalancedClassWeights(y []int) ([2]float64, error) {
	var counts [2]int
	for _, v := range y {
		if v != 0 && v != 1 {
			return [2]float64{}, fmt.Errorf("label %d is not binary", v)
		}
		counts[v]++
	}
	if counts[0] == 0 || counts[1] == 0 {
		return [2]float64{}, ErrSingleClass
	}
	n := float64(len(y))
	return [2]float64{n / (2 * float64(counts[0])), n / (2 * float64(counts[1]))}, nil
}

// Fit minimizes 0.5*||w||^2 + C * sum_i cw_i * log(1 + exp(-y_i * w.x_i))
// with L-BFGS, where w carries the intercept as its last element.
func (lr *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 || len(X) != len(y) {
		return fmt.Errorf("fit needs matching non-empty X and y, got %d and %d", len(X), len(y))
	}
	weights, err := BalancedClassWeights(y)
	if err != nil {
		return err
	}
	lr.ClassWeights = weights

	dim := len(X[0])
	sign := make([]float64, len(y))
	sampleWeight := make([]float64, len(y))
	for i, v := range y {
		sign[i] = float64(2*v - 1)
		sampleWeight[i] = weights[v]
	}

	margin := func(params, x []float64) float64 {
		return floats.Dot(params[:dim], x) + params[dim]
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			reg := floats.Dot(params, params)
			loss := 0.0
			for i, x := range X {
				loss += sampleWeight[i] * logLoss(sign[i]*margin(params, x))
			}
			return 0.5*reg + lr.C*loss
		},
		Grad: func(grad, params []float64) {
			copy(grad, params)
			for i, x := range X {
				z := sign[i] * margin(params, x)
				g := -lr.C * sampleWeight[i] * sign[i] * sigmoid(-z)
				floats.AddScaled(grad[:dim], g, x)
				grad[dim] += g
			}
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: gradientTolerance,
		MajorIterations:   lr.MaxIterations,
	}
	result, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if err != nil {
		if result == nil || len(result.X) != dim+1 {
			return fmt.Errorf("logistic regression optimization failed: %w", err)
		}
		log.Warn().Err(err).Msg("logistic regression stopped early, using last iterate")
	}

	lr.Coefficients = append([]float64(nil), result.X[:dim]...)
	lr.Intercept = result.X[dim]

	log.Debug().
		Int("features", dim).
		Int("samples", len(X)).
		Str("status", result.Status.String()).
		Int("iterations", result.Stats.MajorIterations).
		Float64("objective", result.F).
		Msg("logistic regression fitted")

	return nil
}

// PredictProba returns P(y=1 | x).
func (lr *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(lr.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(lr.Coefficients), len(x))
	}
	return sigmoid(floats.Dot(lr.Coefficients, x) + lr.Intercept), nil
}

// logLoss is log(1 + exp(-m)) without overflow.
func logLoss(m float64) float64 {
	if m > 0 {
		return math.Log1p(math.Exp(-m))
	}
	return -m + math.Log1p(math.Exp(m))
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
