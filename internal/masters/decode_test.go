package masters

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRaw() *RawMasters {
	return &RawMasters{
		Clients:   testutil.SampleClients(),
		Suppliers: testutil.SampleSuppliers(),
		Services:  testutil.SampleServices(),
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want *float64
	}{
		{in: "12", want: domain.Float(12)},
		{in: " 4.5 ", want: domain.Float(4.5)},
		{in: "-3", want: domain.Float(-3)},
		{in: "", want: nil},
		{in: "abc", want: nil},
		{in: "NaN", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.in))
		})
	}
}

func TestParseSLA(t *testing.T) {
	tests := []struct {
		in        string
		wantHours float64
		wantPct   float64
	}{
		{in: "24h / 98%", wantHours: 24, wantPct: 98},
		{in: "48 H", wantHours: 48, wantPct: 0},
		{in: "95%", wantHours: 0, wantPct: 95},
		{in: "72h 99 %", wantHours: 72, wantPct: 99},
		{in: "", wantHours: 0, wantPct: 0},
		{in: "sin SLA", wantHours: 0, wantPct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.wantHours, ParseSLAHours(tt.in))
			assert.Equal(t, tt.wantPct, ParseSLAPct(tt.in))
		})
	}
}

func TestDecodeServices(t *testing.T) {
	m, err := Build(sampleRaw())
	require.NoError(t, err)
	require.Len(t, m.Services, 8)

	first := m.Services[0]
	assert.Equal(t, "SRV-001", first.ServicioID)
	assert.Equal(t, "Transporte", first.Categoria)
	assert.Equal(t, "CLI-001", first.ClientePropietario)
	require.NotNil(t, first.CantidadPedidoEstandar)
	assert.Equal(t, 100.0, *first.CantidadPedidoEstandar)
	assert.Equal(t, 24.0, first.SLAHoras)
	assert.Equal(t, 98.0, first.SLAPct)

	seventh := m.Services[6]
	assert.Equal(t, "SRV-007", seventh.ServicioID)
	assert.Nil(t, seventh.CantidadPedidoEstandar)
	assert.Equal(t, 72.0, seventh.SLAHoras)
	assert.Equal(t, 99.0, seventh.SLAPct)

	fifth := m.Services[4]
	assert.Empty(t, fifth.SLA, "NULL token becomes missing")
	assert.Nil(t, fifth.LeadTimeMaxDias)
}

func TestDecodeSuppliers(t *testing.T) {
	m, err := Build(sampleRaw())
	require.NoError(t, err)
	require.Len(t, m.Suppliers, 5)

	s := m.Suppliers[3]
	assert.Equal(t, "PRV-004", s.ProveedorID)
	assert.Nil(t, s.LeadTimePromedioDias)
	assert.Nil(t, s.RatingDesempeno)
	require.NotNil(t, s.ToleranciaEntregaDias)
	assert.Equal(t, 0.0, *s.ToleranciaEntregaDias)
	assert.Nil(t, s.DiasPago, "optional column absent")
}

func TestBuildMissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name   string
		table  func(raw *RawMasters) *domain.Table
		column string
	}{
		{name: "client id", table: clientsOf, column: "ClienteID"},
		{name: "client segment", table: clientsOf, column: "Segmento"},
		{name: "client channel", table: clientsOf, column: "CanalPreferido"},
		{name: "client zone", table: clientsOf, column: "ZonaDespacho"},
		{name: "client department", table: clientsOf, column: "Departamento"},
		{name: "supplier rating", table: suppliersOf, column: "RatingDesempeno"},
		{name: "supplier certificate", table: suppliersOf, column: "CertificadoCalidad"},
		{name: "supplier status", table: suppliersOf, column: "Estado"},
		{name: "service quantity", table: servicesOf, column: "CantidadPedidoEstandar"},
		{name: "service name", table: servicesOf, column: "NombreServicio"},
		{name: "service subcategory", table: servicesOf, column: "Subcategoria"},
		{name: "service tax rate", table: servicesOf, column: "TarifaImpuesto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sampleRaw()
			renameColumn(t, tt.table(raw), tt.column)

			_, err := Build(raw)
			require.ErrorIs(t, err, ErrMissingInput)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestBuildOptionalColumns(t *testing.T) {
	raw := sampleRaw()
	renameColumn(t, raw.Services, "SLA")
	renameColumn(t, raw.Suppliers, "Departamento")

	m, err := Build(raw)
	require.NoError(t, err)
	assert.Zero(t, m.Services[0].SLAHoras)
	assert.Zero(t, m.Services[0].SLAPct)
}

func clientsOf(raw *RawMasters) *domain.Table   { return raw.Clients }
func suppliersOf(raw *RawMasters) *domain.Table { return raw.Suppliers }
func servicesOf(raw *RawMasters) *domain.Table  { return raw.Services }

// renameColumn hides column from the decoder without touching the shared header slice.
func renameColumn(t *testing.T, table *domain.Table, column string) {
	t.Helper()
	cols := append([]string(nil), table.Columns...)
	for i, c := range cols {
		if c == column {
			cols[i] = column + "_old"
			table.Columns = cols
			return
		}
	}
	t.Fatalf("column %q not in fixture", column)
}
