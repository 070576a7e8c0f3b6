package snapshot

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/masters"
	"github.com/andresuchdata/wms-stockout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMasters(t *testing.T) *masters.Masters {
	t.Helper()
	m, err := masters.Build(&masters.RawMasters{
		Clients:   testutil.SampleClients(),
		Suppliers: testutil.SampleSuppliers(),
		Services:  testutil.SampleServices(),
	})
	require.NoError(t, err)
	return m
}

func findRow(t *testing.T, rows []domain.Snapshot, id string, periodo int) domain.Snapshot {
	t.Helper()
	for _, r := range rows {
		if r.ServicioID == id && r.Periodo == periodo {
			return r
		}
	}
	t.Fatalf("row %s/%d not found", id, periodo)
	return domain.Snapshot{}
}

func TestBuildEmitsOneRowPerServicePeriod(t *testing.T) {
	m := sampleMasters(t)

	for _, periods := range []int{1, 4, 12} {
		rows, err := NewSynthesizer(Config{Periods: periods}).Build(m)
		require.NoError(t, err)
		require.Len(t, rows, len(m.Services)*periods)

		seen := make(map[string]map[int]int)
		for _, r := range rows {
			if seen[r.ServicioID] == nil {
				seen[r.ServicioID] = make(map[int]int)
			}
			seen[r.ServicioID][r.Periodo]++
		}
		for _, svc := range m.Services {
			require.Len(t, seen[svc.ServicioID], periods)
			for p := 1; p <= periods; p++ {
				assert.Equal(t, 1, seen[svc.ServicioID][p])
			}
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	m := sampleMasters(t)
	s := NewSynthesizer(Config{Periods: 12})

	first, err := s.Build(m)
	require.NoError(t, err)
	second, err := s.Build(m)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildAssignsSuppliers(t *testing.T) {
	rows, err := NewSynthesizer(Config{Periods: 1}).Build(sampleMasters(t))
	require.NoError(t, err)

	want := map[string]string{
		"SRV-001": "PRV-001",
		"SRV-002": "PRV-002",
		"SRV-003": "PRV-003",
		"SRV-004": "PRV-004",
		"SRV-005": "PRV-003",
		"SRV-006": "PRV-005",
		"SRV-007": "PRV-002",
		"SRV-008": "PRV-001",
	}
	for _, r := range rows {
		assert.Equal(t, want[r.ServicioID], r.ProveedorID, r.ServicioID)
	}

	transporte := findRow(t, rows, "SRV-001", 1)
	assert.Equal(t, "LOGISTICA", transporte.CategoriaProv)
	assert.Equal(t, "ACTIVO", transporte.EstadoProv)
}

func TestBuildAssignments(t *testing.T) {
	out, err := NewSynthesizer(Config{Periods: 1}).Assignments(sampleMasters(t))
	require.NoError(t, err)
	require.Len(t, out, 8)

	assert.Equal(t, Assignment{ServicioID: "SRV-001", TargetCategory: "LOGISTICA", ProveedorID: "PRV-001"}, out[0])
	assert.Equal(t, Assignment{ServicioID: "SRV-005", TargetCategory: "SERVICIOS", ProveedorID: "PRV-003"}, out[4])
}

func TestBuildDerivedSignals(t *testing.T) {
	rows, err := NewSynthesizer(Config{Periods: 12}).Build(sampleMasters(t))
	require.NoError(t, err)

	t.Run("preferente demand", func(t *testing.T) {
		r := findRow(t, rows, "SRV-001", 1)
		assert.Equal(t, "PREFERENTE", r.Segmento)
		assert.InDelta(t, 8.571, r.DemandaDiariaEst, 1e-3)
		assert.Equal(t, 1.2, r.Signals.FactorSegmento)
	})

	t.Run("dip period triggers stockout", func(t *testing.T) {
		r := findRow(t, rows, "SRV-001", 3)
		assert.Equal(t, 0, r.Signals.Ciclo)
		assert.Equal(t, 0.55, r.Signals.Dip)
		assert.InDelta(t, 1.2, r.Signals.FactorLead, 1e-12)
		assert.Equal(t, 66, r.StockActual)
		assert.Equal(t, 8, r.DiasHastaRecepcion)
		assert.Equal(t, 100, r.RecepcionPendiente)
		assert.Equal(t, 1, r.Stockout14d)
	})

	t.Run("period four with id mod four zero dips", func(t *testing.T) {
		r := findRow(t, rows, "SRV-004", 4)
		assert.Equal(t, 0.55, r.Signals.Dip)
		assert.Equal(t, 2.0, r.Signals.FactorLead, "lead factor is capped")
		assert.Equal(t, domain.SegmentUnknown, r.Segmento)
		assert.Equal(t, 132, r.StockActual)
		assert.Nil(t, r.LeadTimePromedioDias, "raw supplier lead time is kept")
		assert.Equal(t, 6, r.DiasHastaRecepcion, "missing supplier lead uses the median")
	})

	t.Run("lower-case segment is upper-cased", func(t *testing.T) {
		r := findRow(t, rows, "SRV-002", 1)
		assert.Equal(t, "BASICO", r.Segmento)
		assert.Equal(t, 0.8, r.Signals.FactorSegmento)
	})

	t.Run("unknown client", func(t *testing.T) {
		r := findRow(t, rows, "SRV-006", 1)
		assert.Equal(t, domain.SegmentUnknown, r.Segmento)
		assert.Empty(t, r.Departamento)
	})

	t.Run("missing quantity filled with median", func(t *testing.T) {
		r := findRow(t, rows, "SRV-007", 1)
		assert.Equal(t, 60.0, r.CantidadPedidoEstandar)
	})

	t.Run("missing max lead time filled only for the signal", func(t *testing.T) {
		r := findRow(t, rows, "SRV-005", 1)
		assert.Nil(t, r.LeadTimeMaxDias)
		assert.InDelta(t, 1.25, r.Signals.FactorLead, 1e-12)
	})

	t.Run("zero demand never triggers", func(t *testing.T) {
		for p := 1; p <= 12; p++ {
			r := findRow(t, rows, "SRV-008", p)
			assert.Zero(t, r.DemandaDiariaEst)
			assert.Nil(t, r.Signals.CoberturaDias)
			assert.Equal(t, 0, r.Stockout14d)
		}
	})
}

func TestBuildInvariants(t *testing.T) {
	clients, suppliers, services := testutil.GeneratedMasters(40)
	m, err := masters.Build(&masters.RawMasters{Clients: clients, Suppliers: suppliers, Services: services})
	require.NoError(t, err)

	rows, err := NewSynthesizer(Config{Periods: 12}).Build(m)
	require.NoError(t, err)
	require.Len(t, rows, 480)

	positives := 0
	for _, r := range rows {
		assert.Contains(t, []int{0, 1}, r.Stockout14d)
		assert.GreaterOrEqual(t, r.StockActual, 0)
		assert.GreaterOrEqual(t, r.RecepcionPendiente, 0)
		assert.GreaterOrEqual(t, r.DiasHastaRecepcion, 0)
		assert.LessOrEqual(t, r.DiasHastaRecepcion, 45)
		assert.GreaterOrEqual(t, r.Signals.FactorLead, 0.8)
		assert.LessOrEqual(t, r.Signals.FactorLead, 2.0)

		want := 0
		if r.DemandaDiariaEst != 0 {
			cov := float64(r.StockActual) / r.DemandaDiariaEst
			if cov < 14 && float64(r.DiasHastaRecepcion) > cov {
				want = 1
			}
		}
		assert.Equal(t, want, r.Stockout14d, "%s/%d", r.ServicioID, r.Periodo)
		positives += r.Stockout14d
	}

	assert.Positive(t, positives)
	assert.Less(t, positives, len(rows))
}

func TestBuildErrors(t *testing.T) {
	_, err := NewSynthesizer(Config{Periods: 0}).Build(sampleMasters(t))
	assert.ErrorIs(t, err, ErrInvalidPeriods)

	_, err = NewSynthesizer(Config{Periods: 1}).Build(nil)
	assert.ErrorIs(t, err, masters.ErrMissingInput)

	m := sampleMasters(t)
	m.Suppliers = nil
	_, err = NewSynthesizer(Config{Periods: 1}).Build(m)
	assert.ErrorIs(t, err, ErrNoSuppliers)
}
