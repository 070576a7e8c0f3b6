package quality

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	m, err := masters.Build(&masters.RawMasters{
		Clients:   testutil.SampleClients(),
		Suppliers: testutil.SampleSuppliers(),
		Services:  testutil.SampleServices(),
	})
	require.NoError(t, err)

	report := Build(m)
	require.Len(t, report.Summary, 3)

	clients := report.Summary[0]
	assert.Equal(t, masters.NameClients, clients.Master)
	assert.Equal(t, 4, clients.Records)
	assert.Equal(t, 4, clients.UniqueIDs)
	assert.Equal(t, 1, clients.DuplicateIDs, "duplicates are counted before dedupe")
	// CLI-003 LimiteCredito (N/A) and CLI-004 Segmento
	assert.Equal(t, 2, clients.TotalNulls)
	assert.Nil(t, clients.InvalidRUC)

	suppliers := report.Summary[1]
	assert.Equal(t, masters.NameSuppliers, suppliers.Master)
	require.NotNil(t, suppliers.InvalidRUC)
	assert.Equal(t, 2, *suppliers.InvalidRUC)
	assert.Equal(t, 2, suppliers.TotalNulls)

	services := report.Summary[2]
	assert.Equal(t, 8, services.Records)
	assert.Equal(t, 0, services.DuplicateIDs)

	assert.Equal(t, []MissingField{
		{Field: "Segmento", PctMissing: 25},
		{Field: "LimiteCredito", PctMissing: 25},
	}, report.TopMissing[masters.NameClients])
}

func TestTopMissing(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"A", "B", "C"},
		Rows: [][]string{
			{"", "", "x"},
			{"1", "", "x"},
			{"1", "", "x"},
		},
	}

	got := TopMissing(table, 10)
	assert.Equal(t, []MissingField{
		{Field: "B", PctMissing: 100},
		{Field: "A", PctMissing: 33.33},
	}, got)

	assert.Len(t, TopMissing(table, 1), 1)
	assert.Empty(t, TopMissing(&domain.Table{Columns: []string{"A"}}, 10))
}

func TestInvalidRUCCount(t *testing.T) {
	table := &domain.Table{
		Columns: []string{"RUC"},
		Rows:    [][]string{{"20123456789"}, {"2012345678"}, {"201234567890"}, {"abcdefghijk"}, {""}},
	}

	assert.Equal(t, 3, InvalidRUCCount(table, 0))
}
