package masters

import (
	"sort"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
)

// nullTokens are the spellings of "no value" found in the MDM exports.
var nullTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"None": {},
	"NULL": {},
	"N/A":  {},
	"NA":   {},
}

// Numeric columns per master; unparseable values become missing.
var (
	clientNumericColumns   = []string{"LimiteCredito"}
	supplierNumericColumns = []string{"LeadTimePromedioDias", "ToleranciaEntregaDias", "RatingDesempeno", "DiasPago", "LimiteCredito"}
	serviceNumericColumns  = []string{"TarifaBase", "LeadTimeMinDias", "LeadTimeMaxDias", "TiempoEjecucionHoras",
		"CantidadPedidoEstandar", "CostoEstandar", "TarifaImpuesto"}
)

// NormalizeStrings returns a copy of t with every cell trimmed and null
// tokens turned into missing values.
func NormalizeStrings(t *domain.Table) *domain.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for j, v := range row {
			v = strings.TrimSpace(v)
			if _, ok := nullTokens[v]; ok {
				v = ""
			}
			row[j] = v
		}
	}
	return out
}

// CountDuplicateIDs counts rows whose ID already appeared in an earlier row.
// Missing IDs count as one shared value.
func CountDuplicateIDs(t *domain.Table, idCol string) int {
	idx := t.Index(idCol)
	if idx < 0 {
		return 0
	}
	seen := make(map[string]struct{}, t.Len())
	dups := 0
	for i := range t.Rows {
		id := t.Cell(i, idx)
		if _, ok := seen[id]; ok {
			dups++
			continue
		}
		seen[id] = struct{}{}
	}
	return dups
}

// DedupeBest keeps one row per ID: the one with the most non-missing cells,
// the earliest on ties. The result is ordered by ID with missing IDs last.
func DedupeBest(t *domain.Table, idCol string) *domain.Table {
	idx := t.Index(idCol)
	if idx < 0 {
		return t.Clone()
	}

	nonNull := make([]int, t.Len())
	order := make([]int, t.Len())
	for i, row := range t.Rows {
		order[i] = i
		for _, v := range row {
			if v != "" {
				nonNull[i]++
			}
		}
	}

	sort.SliceStable(order, func(a, b int) bool {
		ia, ib := t.Cell(order[a], idx), t.Cell(order[b], idx)
		if ia != ib {
			if ia == "" || ib == "" {
				return ib == ""
			}
			return ia < ib
		}
		return nonNull[order[a]] > nonNull[order[b]]
	})

	out := &domain.Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]string, 0, t.Len()),
	}
	seen := make(map[string]struct{}, t.Len())
	for _, i := range order {
		id := t.Cell(i, idx)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out.Rows = append(out.Rows, append([]string(nil), t.Rows[i]...))
	}
	return out
}

// CoerceNumeric blanks cells of the given columns that do not parse as
// numbers. t is modified in place and returned.
func CoerceNumeric(t *domain.Table, cols []string) *domain.Table {
	for _, col := range cols {
		idx := t.Index(col)
		if idx < 0 {
			continue
		}
		for i := range t.Rows {
			if ParseNumber(t.Cell(i, idx)) == nil && idx < len(t.Rows[i]) {
				t.Rows[i][idx] = ""
			}
		}
	}
	return t
}
