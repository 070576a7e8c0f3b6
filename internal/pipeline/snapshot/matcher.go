package snapshot

import (
	"sort"
	"strings"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/stats"
	"github.com/rs/zerolog/log"
)

// logisticsCategories are the service categories served by logistics suppliers.
var logisticsCategories = map[string]struct{}{
	"almacenaje":        {},
	"distribución":      {},
	"transporte":        {},
	"comercio exterior": {},
	"it/tracking":       {},
	"valor agregado":    {},
}

// MapSupplierCategory maps a service category to the supplier category that
// serves it. Anything that is not logistics goes to SERVICIOS.
func MapSupplierCategory(serviceCategory string) string {
	key := strings.ToLower(strings.TrimSpace(serviceCategory))
	if _, ok := logisticsCategories[key]; ok {
		return domain.SupplierCategoryLogistics
	}
	return domain.SupplierCategoryServices
}

// rankedSupplier is a supplier with its ranking keys already filled.
type rankedSupplier struct {
	id       string
	category string
	dept     string
	rating   *float64
	lead     *float64
}

// SupplierMatcher assigns services to suppliers. It is immutable after
// construction and safe for concurrent use.
type SupplierMatcher struct {
	suppliers    []rankedSupplier
	ratingMedian *float64
	leadMedian   *float64
}

// NewSupplierMatcher indexes the supplier table and fills missing rating and
// lead time with medians computed once over all suppliers.
func NewSupplierMatcher(suppliers []domain.Supplier) (*SupplierMatcher, error) {
	if len(suppliers) == 0 {
		return nil, ErrNoSuppliers
	}

	ratings := make([]*float64, 0, len(suppliers))
	leads := make([]*float64, 0, len(suppliers))
	for _, s := range suppliers {
		ratings = append(ratings, s.RatingDesempeno)
		leads = append(leads, s.LeadTimePromedioDias)
	}

	m := &SupplierMatcher{suppliers: make([]rankedSupplier, 0, len(suppliers))}
	if v, ok := stats.MedianOf(ratings); ok {
		m.ratingMedian = &v
	}
	if v, ok := stats.MedianOf(leads); ok {
		m.leadMedian = &v
	}

	for _, s := range suppliers {
		r := rankedSupplier{
			id:       s.ProveedorID,
			category: normalizeKey(s.Categoria),
			dept:     s.Departamento,
			rating:   s.RatingDesempeno,
			lead:     s.LeadTimePromedioDias,
		}
		if r.rating == nil {
			r.rating = m.ratingMedian
		}
		if r.lead == nil {
			r.lead = m.leadMedian
		}
		m.suppliers = append(m.suppliers, r)
	}

	log.Debug().
		Int("suppliers", len(m.suppliers)).
		Interface("rating_median", m.ratingMedian).
		Interface("lead_median", m.leadMedian).
		Msg("supplier matcher ready")

	return m, nil
}

// Match returns the best supplier for a service category and the department
// of the service's client. The result depends only on its arguments and the
// supplier table.
func (m *SupplierMatcher) Match(serviceCategory, clientDept string) string {
	target := MapSupplierCategory(serviceCategory)

	candidates := make([]rankedSupplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		if s.category == target {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, m.suppliers...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return m.less(candidates[i], candidates[j], clientDept)
	})
	return candidates[0].id
}

// Assign matches a service given its client (nil when the client is unknown).
func (m *SupplierMatcher) Assign(svc domain.Service, client *domain.Client) Assignment {
	dept := ""
	if client != nil {
		dept = client.Departamento
	}
	return Assignment{
		ServicioID:     svc.ServicioID,
		TargetCategory: MapSupplierCategory(svc.Categoria),
		ProveedorID:    m.Match(svc.Categoria, dept),
	}
}

// less orders by department match desc, rating desc, lead time asc, ID asc.
// Missing values sort last.
func (m *SupplierMatcher) less(a, b rankedSupplier, dept string) bool {
	am, bm := deptMatch(a.dept, dept), deptMatch(b.dept, dept)
	if am != bm {
		return am
	}
	if c := compareOptional(a.rating, b.rating, true); c != 0 {
		return c < 0
	}
	if c := compareOptional(a.lead, b.lead, false); c != 0 {
		return c < 0
	}
	if a.id != b.id {
		if a.id == "" || b.id == "" {
			return b.id == ""
		}
		return a.id < b.id
	}
	return false
}

func deptMatch(supplierDept, clientDept string) bool {
	return supplierDept != "" && clientDept != "" && supplierDept == clientDept
}

// compareOptional returns -1 when a ranks before b. Missing values rank last.
func compareOptional(a, b *float64, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	case (*a > *b) == desc:
		return -1
	default:
		return 1
	}
}
