package model

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureColumnsPartition(t *testing.T) {
	assert.Len(t, FeatureColumns, 34)
	assert.Len(t, NumericFeatures, 16)
	assert.Len(t, CategoricalFeatures, 18)
	assert.ElementsMatch(t, FeatureColumns, append(append([]string(nil), NumericFeatures...), CategoricalFeatures...))

	for _, col := range FeatureColumns {
		assert.Contains(t, domain.SnapshotColumns, col)
	}
}

func TestFeaturesFromSnapshot(t *testing.T) {
	row := FeaturesFromSnapshot(domain.Snapshot{
		ServicioID:       "SRV-001",
		Categoria:        "Transporte",
		StockActual:      66,
		DemandaDiariaEst: 8.5,
		Periodo:          3,
	})

	require.NoError(t, row.Validate())
	assert.Len(t, row, 34)
	assert.NotContains(t, row, "ServicioID")
	assert.Equal(t, "Transporte", row["Categoria"])
	assert.Equal(t, 66.0, row["StockActual"])
	assert.Nil(t, row["LeadTimeMaxDias"])
}

func TestValidateReportsMissingFeature(t *testing.T) {
	row := FeaturesFromSnapshot(domain.Snapshot{})
	delete(row, "StockActual")

	err := row.Validate()
	require.ErrorIs(t, err, ErrMissingFeature)
	assert.Contains(t, err.Error(), "StockActual")
}

func TestValueReaders(t *testing.T) {
	v, ok := numericValue("12.5")
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	_, ok = numericValue("")
	assert.False(t, ok)
	_, ok = numericValue(nil)
	assert.False(t, ok)

	v, ok = numericValue(7)
	assert.True(t, ok)
	assert.Equal(t, 7.0, v)

	s, ok := categoricalValue("LIMA")
	assert.True(t, ok)
	assert.Equal(t, "LIMA", s)

	_, ok = categoricalValue("")
	assert.False(t, ok)
}
