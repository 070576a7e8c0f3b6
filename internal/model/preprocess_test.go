package model

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowsWith(values ...map[string]interface{}) []FeatureRow {
	rows := make([]FeatureRow, 0, len(values))
	for _, v := range values {
		row := FeaturesFromSnapshot(domain.Snapshot{})
		for _, col := range FeatureColumns {
			row[col] = nil
		}
		for k, val := range v {
			row[k] = val
		}
		rows = append(rows, row)
	}
	return rows
}

func scalerFor(t *testing.T, p *Preprocessor, col string) NumericScaler {
	t.Helper()
	for _, n := range p.Numeric {
		if n.Column == col {
			return n
		}
	}
	t.Fatalf("no scaler for %s", col)
	return NumericScaler{}
}

func encoderFor(t *testing.T, p *Preprocessor, col string) CategoricalEncoder {
	t.Helper()
	for _, c := range p.Categorical {
		if c.Column == col {
			return c
		}
	}
	t.Fatalf("no encoder for %s", col)
	return CategoricalEncoder{}
}

func TestFitPreprocessor(t *testing.T) {
	rows := rowsWith(
		map[string]interface{}{"StockActual": 10.0, "Segmento": "BASICO", "Periodo": 1.0},
		map[string]interface{}{"StockActual": 30.0, "Segmento": "PREFERENTE", "Periodo": 1.0},
		map[string]interface{}{"StockActual": nil, "Segmento": "BASICO", "Periodo": 1.0},
	)

	p, err := FitPreprocessor(rows)
	require.NoError(t, err)

	stock := scalerFor(t, p, "StockActual")
	assert.Equal(t, 20.0, stock.Median)
	assert.Equal(t, 20.0, stock.Mean, "mean is taken after imputation")
	assert.InDelta(t, 8.16496580927726, stock.Scale, 1e-12)

	periodo := scalerFor(t, p, "Periodo")
	assert.Equal(t, 1.0, periodo.Scale, "constant columns keep unit scale")

	seg := encoderFor(t, p, "Segmento")
	assert.Equal(t, "BASICO", seg.Fill)
	assert.Equal(t, []string{"BASICO", "PREFERENTE"}, seg.Categories)

	empty := encoderFor(t, p, "Moneda")
	assert.Empty(t, empty.Categories)

	assert.Equal(t, 16+2, p.Width())
}

func TestPreprocessorTransform(t *testing.T) {
	rows := rowsWith(
		map[string]interface{}{"StockActual": 10.0, "Segmento": "BASICO"},
		map[string]interface{}{"StockActual": 30.0, "Segmento": "PREFERENTE"},
	)
	p, err := FitPreprocessor(rows)
	require.NoError(t, err)

	stockIdx := -1
	for i, n := range p.Numeric {
		if n.Column == "StockActual" {
			stockIdx = i
		}
	}
	require.GreaterOrEqual(t, stockIdx, 0)
	segOffset := len(p.Numeric)

	x, err := p.Transform(rowsWith(map[string]interface{}{"StockActual": 30.0, "Segmento": "PREFERENTE"})[0])
	require.NoError(t, err)
	require.Len(t, x, p.Width())
	assert.InDelta(t, 1.0, x[stockIdx], 1e-12)
	assert.Equal(t, []float64{0, 1}, x[segOffset:segOffset+2])

	x, err = p.Transform(rowsWith(map[string]interface{}{"StockActual": nil, "Segmento": "OTRO"})[0])
	require.NoError(t, err)
	assert.InDelta(t, 0.0, x[stockIdx], 1e-12, "missing imputed with the median")
	assert.Equal(t, []float64{0, 0}, x[segOffset:segOffset+2], "unknown category ignored")

	x, err = p.Transform(rowsWith(map[string]interface{}{"Segmento": nil})[0])
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, x[segOffset:segOffset+2], "missing imputed with the mode")

	bad := rowsWith(map[string]interface{}{})[0]
	delete(bad, "Segmento")
	_, err = p.Transform(bad)
	assert.ErrorIs(t, err, ErrMissingFeature)
}

func TestFitPreprocessorEmpty(t *testing.T) {
	_, err := FitPreprocessor(nil)
	assert.Error(t, err)
}
