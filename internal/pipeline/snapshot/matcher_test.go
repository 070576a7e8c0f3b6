package snapshot

import (
	"testing"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSupplierCategory(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Transporte", want: domain.SupplierCategoryLogistics},
		{in: " almacenaje ", want: domain.SupplierCategoryLogistics},
		{in: "Distribución", want: domain.SupplierCategoryLogistics},
		{in: "Comercio Exterior", want: domain.SupplierCategoryLogistics},
		{in: "IT/Tracking", want: domain.SupplierCategoryLogistics},
		{in: "Valor agregado", want: domain.SupplierCategoryLogistics},
		{in: "Tecnología", want: domain.SupplierCategoryServices},
		{in: "Consultoría", want: domain.SupplierCategoryServices},
		{in: "Otros", want: domain.SupplierCategoryServices},
		{in: "", want: domain.SupplierCategoryServices},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MapSupplierCategory(tt.in))
		})
	}
}

func TestSupplierMatcherRanking(t *testing.T) {
	suppliers := []domain.Supplier{
		{ProveedorID: "P4", Categoria: "LOGISTICA", RatingDesempeno: domain.Float(4.5), LeadTimePromedioDias: domain.Float(3), Departamento: "Cusco"},
		{ProveedorID: "P3", Categoria: "LOGISTICA", RatingDesempeno: domain.Float(4.5), LeadTimePromedioDias: domain.Float(3), Departamento: "Lima"},
		{ProveedorID: "P2", Categoria: "logistica", RatingDesempeno: domain.Float(4.5), LeadTimePromedioDias: domain.Float(9), Departamento: "Lima"},
		{ProveedorID: "P1", Categoria: "LOGISTICA", RatingDesempeno: domain.Float(3.0), LeadTimePromedioDias: domain.Float(1), Departamento: "Lima"},
		{ProveedorID: "S1", Categoria: "SERVICIOS", RatingDesempeno: domain.Float(5.0), LeadTimePromedioDias: domain.Float(1), Departamento: "Piura"},
	}
	m, err := NewSupplierMatcher(suppliers)
	require.NoError(t, err)

	tests := []struct {
		name     string
		category string
		dept     string
		want     string
	}{
		{name: "department match wins over rating", category: "Transporte", dept: "Cusco", want: "P4"},
		{name: "rating then lead then id", category: "Transporte", dept: "Lima", want: "P3"},
		{name: "no department match", category: "Transporte", dept: "Tacna", want: "P3"},
		{name: "missing department never matches", category: "Transporte", dept: "", want: "P3"},
		{name: "services category", category: "Consultoría", dept: "Lima", want: "S1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.category, tt.dept))
		})
	}
}

func TestSupplierMatcherFallsBackToAllSuppliers(t *testing.T) {
	m, err := NewSupplierMatcher([]domain.Supplier{
		{ProveedorID: "S2", Categoria: "SERVICIOS", RatingDesempeno: domain.Float(4)},
		{ProveedorID: "S1", Categoria: "SERVICIOS", RatingDesempeno: domain.Float(4)},
	})
	require.NoError(t, err)

	assert.Equal(t, "S1", m.Match("Transporte", "Lima"))
}

func TestSupplierMatcherFillsMissingWithMedians(t *testing.T) {
	// Medians over all suppliers: rating 4.0, lead 5. B ranks on the filled
	// rating and beats A; left unfilled it would sort last.
	m, err := NewSupplierMatcher([]domain.Supplier{
		{ProveedorID: "A", Categoria: "SERVICIOS", RatingDesempeno: domain.Float(3.0), LeadTimePromedioDias: domain.Float(2)},
		{ProveedorID: "B", Categoria: "SERVICIOS"},
		{ProveedorID: "C", Categoria: "LOGISTICA", RatingDesempeno: domain.Float(5.0), LeadTimePromedioDias: domain.Float(8)},
	})
	require.NoError(t, err)

	assert.Equal(t, "B", m.Match("Otros", ""))
	assert.Equal(t, "C", m.Match("Transporte", ""))
}

func TestSupplierMatcherMissingStatsSortLast(t *testing.T) {
	m, err := NewSupplierMatcher([]domain.Supplier{
		{ProveedorID: "A", Categoria: "SERVICIOS"},
		{ProveedorID: "B", Categoria: "SERVICIOS"},
	})
	require.NoError(t, err)

	assert.Equal(t, "A", m.Match("Otros", ""))
}

func TestSupplierMatcherIsDeterministic(t *testing.T) {
	raw := sampleMasters(t)
	m, err := NewSupplierMatcher(raw.Suppliers)
	require.NoError(t, err)

	first := m.Match("Transporte", "Lima")
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, m.Match("Transporte", "Lima"))
	}
}

func TestSupplierMatcherEmptyTable(t *testing.T) {
	_, err := NewSupplierMatcher(nil)
	assert.ErrorIs(t, err, ErrNoSuppliers)
}

func TestCompareOptional(t *testing.T) {
	a, b := 1.0, 2.0
	assert.Equal(t, -1, compareOptional(&b, &a, true))
	assert.Equal(t, 1, compareOptional(&a, &b, true))
	assert.Equal(t, -1, compareOptional(&a, &b, false))
	assert.Equal(t, 1, compareOptional(nil, &a, false))
	assert.Equal(t, -1, compareOptional(&a, nil, true))
	assert.Equal(t, 0, compareOptional(nil, nil, true))
}
