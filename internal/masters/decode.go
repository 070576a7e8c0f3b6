package masters

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

var (
	// Required columns are the ones the dataset joins and keeps. SLA and the
	// supplier Departamento stay optional.
	requiredClientColumns   = []string{"ClienteID", "Segmento", "CanalPreferido", "ZonaDespacho", "Departamento"}
	requiredSupplierColumns = []string{"ProveedorID", "Categoria", "LeadTimePromedioDias", "ToleranciaEntregaDias",
		"RatingDesempeno", "CertificadoCalidad", "Estado"}
	requiredServiceColumns = []string{"ServicioID", "NombreServicio", "Categoria", "Subcategoria", "UnidadTarifa",
		"TipoUnidad", "TarifaBase", "Moneda", "RequiereCertificacion", "Temperatura", "LeadTimeMinDias",
		"LeadTimeMaxDias", "TiempoEjecucionHoras", "ModalidadContrato", "Estado", "CantidadPedidoEstandar",
		"CostoEstandar", "TarifaImpuesto", "TemperaturaControlada", "CaducidadControlada", "ClientePropietario"}

	slaHoursPattern = regexp.MustCompile(`(\d+)\s*h`)
	slaPctPattern   = regexp.MustCompile(`(\d+)\s*%`)
)

// rowReader reads typed values from one table row by column name.
type rowReader struct {
	t    *domain.Table
	cols map[string]int
	row  int
}

func newColumnIndex(t *domain.Table) map[string]int {
	cols := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := cols[c]; !dup {
			cols[c] = i
		}
	}
	return cols
}

func (r rowReader) str(col string) string {
	idx, ok := r.cols[col]
	if !ok {
		return ""
	}
	return r.t.Cell(r.row, idx)
}

func (r rowReader) num(col string) *float64 {
	return ParseNumber(r.str(col))
}

// ParseNumber coerces a cell to a number; blanks and garbage become missing.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}

// ParseSLAHours extracts the hour figure from SLA text such as "24h / 98%".
func ParseSLAHours(s string) float64 {
	return firstMatch(slaHoursPattern, strings.ToLower(s))
}

// ParseSLAPct extracts the percentage figure from SLA text.
func ParseSLAPct(s string) float64 {
	return firstMatch(slaPctPattern, s)
}

func firstMatch(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

func requireColumns(t *domain.Table, cols []string) error {
	var missing []string
	for _, c := range cols {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s master lacks columns %s", ErrMissingInput, t.Name, strings.Join(missing, ", "))
	}
	return nil
}

func decodeClients(t *domain.Table) ([]domain.Client, error) {
	if err := requireColumns(t, requiredClientColumns); err != nil {
		return nil, err
	}
	cols := newColumnIndex(t)
	out := make([]domain.Client, 0, t.Len())
	for i := range t.Rows {
		r := rowReader{t: t, cols: cols, row: i}
		out = append(out, domain.Client{
			ClienteID:      r.str("ClienteID"),
			Segmento:       r.str("Segmento"),
			CanalPreferido: r.str("CanalPreferido"),
			ZonaDespacho:   r.str("ZonaDespacho"),
			Departamento:   r.str("Departamento"),
			LimiteCredito:  r.num("LimiteCredito"),
		})
	}
	return out, nil
}

func decodeSuppliers(t *domain.Table) ([]domain.Supplier, error) {
	if err := requireColumns(t, requiredSupplierColumns); err != nil {
		return nil, err
	}
	cols := newColumnIndex(t)
	out := make([]domain.Supplier, 0, t.Len())
	for i := range t.Rows {
		r := rowReader{t: t, cols: cols, row: i}
		out = append(out, domain.Supplier{
			ProveedorID:           r.str("ProveedorID"),
			Categoria:             r.str("Categoria"),
			LeadTimePromedioDias:  r.num("LeadTimePromedioDias"),
			ToleranciaEntregaDias: r.num("ToleranciaEntregaDias"),
			RatingDesempeno:       r.num("RatingDesempeno"),
			CertificadoCalidad:    r.str("CertificadoCalidad"),
			Estado:                r.str("Estado"),
			RUC:                   r.str("RUC"),
			Departamento:          r.str("Departamento"),
			DiasPago:              r.num("DiasPago"),
			LimiteCredito:         r.num("LimiteCredito"),
		})
	}
	return out, nil
}

func decodeServices(t *domain.Table) ([]domain.Service, error) {
	if err := requireColumns(t, requiredServiceColumns); err != nil {
		return nil, err
	}
	cols := newColumnIndex(t)
	out := make([]domain.Service, 0, t.Len())
	for i := range t.Rows {
		r := rowReader{t: t, cols: cols, row: i}
		sla := r.str("SLA")
		out = append(out, domain.Service{
			ServicioID:             r.str("ServicioID"),
			NombreServicio:         r.str("NombreServicio"),
			Categoria:              r.str("Categoria"),
			Subcategoria:           r.str("Subcategoria"),
			UnidadTarifa:           r.str("UnidadTarifa"),
			TipoUnidad:             r.str("TipoUnidad"),
			TarifaBase:             r.num("TarifaBase"),
			Moneda:                 r.str("Moneda"),
			RequiereCertificacion:  r.str("RequiereCertificacion"),
			Temperatura:            r.str("Temperatura"),
			LeadTimeMinDias:        r.num("LeadTimeMinDias"),
			LeadTimeMaxDias:        r.num("LeadTimeMaxDias"),
			TiempoEjecucionHoras:   r.num("TiempoEjecucionHoras"),
			ModalidadContrato:      r.str("ModalidadContrato"),
			Estado:                 r.str("Estado"),
			CantidadPedidoEstandar: r.num("CantidadPedidoEstandar"),
			CostoEstandar:          r.num("CostoEstandar"),
			TarifaImpuesto:         r.num("TarifaImpuesto"),
			TemperaturaControlada:  r.str("TemperaturaControlada"),
			CaducidadControlada:    r.str("CaducidadControlada"),
			SLA:                    sla,
			SLAHoras:               ParseSLAHours(sla),
			SLAPct:                 ParseSLAPct(sla),
			ClientePropietario:     r.str("ClientePropietario"),
		})
	}
	return out, nil
}
