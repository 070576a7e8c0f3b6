package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCalculator(t *testing.T) {
	calc := NewSnapshotCalculator()

	tests := []struct {
		name           string
		in             SnapshotInput
		wantStock      int
		wantDays       int
		wantPending    int
		wantLabel      int
		wantLeadFactor float64
	}{
		{
			name:           "healthy stock",
			in:             SnapshotInput{ServicioNum: 1, Periodo: 1, Segmento: "ESTANDAR", Quantity: 140, LeadTimeMax: 0, SupplierLead: 5, Tolerance: 2},
			wantStock:      280,
			wantDays:       7,
			wantPending:    0,
			wantLabel:      0,
			wantLeadFactor: 1.0,
		},
		{
			name:           "dip with slow supplier",
			in:             SnapshotInput{ServicioNum: 3, Periodo: 9, Segmento: "ESTANDAR", Quantity: 140, LeadTimeMax: 0, SupplierLead: 12, Tolerance: 0},
			wantStock:      77,
			wantDays:       12,
			wantPending:    140,
			wantLabel:      1,
			wantLeadFactor: 1.0,
		},
		{
			name:           "reception capped at 45 days",
			in:             SnapshotInput{ServicioNum: 2, Periodo: 1, Segmento: "BASICO", Quantity: 10, LeadTimeMax: 300, SupplierLead: 44, Tolerance: 10},
			wantStock:      40,
			wantDays:       45,
			wantPending:    0,
			wantLabel:      0,
			wantLeadFactor: 2.0,
		},
		{
			name:           "negative lead floors the factor",
			in:             SnapshotInput{ServicioNum: 1, Periodo: 2, Segmento: "", Quantity: 10, LeadTimeMax: -60, SupplierLead: -3, Tolerance: 0},
			wantStock:      24,
			wantDays:       0,
			wantPending:    0,
			wantLabel:      0,
			wantLeadFactor: 0.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(tt.in)
			assert.Equal(t, tt.wantStock, got.StockActual)
			assert.Equal(t, tt.wantDays, got.DiasHastaRecepcion)
			assert.Equal(t, tt.wantPending, got.RecepcionPendiente)
			assert.Equal(t, tt.wantLabel, got.Stockout14d)
			assert.InDelta(t, tt.wantLeadFactor, got.Signals.FactorLead, 1e-12)
		})
	}
}

func TestSnapshotCalculatorZeroDemand(t *testing.T) {
	got := NewSnapshotCalculator().Calculate(SnapshotInput{Periodo: 1, Quantity: 0, SupplierLead: 40})

	assert.Zero(t, got.DemandaDiariaEst)
	assert.Nil(t, got.Signals.CoberturaDias)
	assert.Equal(t, 0, got.Stockout14d)
}

func TestSnapshotCalculatorCoverage(t *testing.T) {
	got := NewSnapshotCalculator().Calculate(SnapshotInput{Periodo: 1, Segmento: "ESTANDAR", Quantity: 140, SupplierLead: 1})

	require.NotNil(t, got.Signals.CoberturaDias)
	assert.InDelta(t, 28.0, *got.Signals.CoberturaDias, 1e-9)
}

func TestRoundHalfEven(t *testing.T) {
	assert.Equal(t, 2, roundHalfEven(2.5))
	assert.Equal(t, 4, roundHalfEven(3.5))
	assert.Equal(t, 3, roundHalfEven(2.6))
}

func TestExtractNum(t *testing.T) {
	assert.Equal(t, 12, extractNum("SRV-012"))
	assert.Equal(t, 7, extractNum("A7B99"))
	assert.Equal(t, 0, extractNum("SRV"))
	assert.Equal(t, 0, extractNum(""))
	assert.Equal(t, 3, extractNum("SRV99999999999999999999"))
	assert.Equal(t, 0, extractNum("SRV-100000000000000000000"))
}

func TestCycleOffsetForLongServiceIDs(t *testing.T) {
	sc := NewSnapshotCalculator()
	long := sc.Calculate(SnapshotInput{Periodo: 1, ServicioNum: extractNum("SRV99999999999999999999")})
	short := sc.Calculate(SnapshotInput{Periodo: 1, ServicioNum: 3})
	assert.Equal(t, short.Signals.Ciclo, long.Signals.Ciclo)
}
