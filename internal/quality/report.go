// Package quality summarizes missingness and field validity of the
// normalized masters. It never modifies them.
package quality

import (
	"math"
	"regexp"
	"sort"

	"github.com/andresuchdata/wms-stockout/internal/domain"
	"github.com/andresuchdata/wms-stockout/internal/masters"
)

// TopMissingLimit caps the per-master missing-field ranking.
const TopMissingLimit = 10

var rucPattern = regexp.MustCompile(`^\d{11}$`)

// MasterSummary is one line of the quality summary.
type MasterSummary struct {
	Master       string `json:"master"`
	Records      int    `json:"records"`
	UniqueIDs    int    `json:"unique_ids"`
	DuplicateIDs int    `json:"duplicate_ids"`
	TotalNulls   int    `json:"total_nulls"`
	InvalidRUC   *int   `json:"invalid_ruc,omitempty"`
}

// MissingField is the share of missing values of one column, in percent.
type MissingField struct {
	Field      string  `json:"field"`
	PctMissing float64 `json:"pct_missing"`
}

// Report is the full data quality report.
type Report struct {
	Summary    []MasterSummary           `json:"summary"`
	TopMissing map[string][]MissingField `json:"top_missing"`
}

// Build computes the report over the normalized masters.
func Build(m *masters.Masters) Report {
	report := Report{TopMissing: make(map[string][]MissingField, 3)}
	for _, master := range m.All() {
		summary := summarize(master)
		if master.Name == masters.NameSuppliers {
			n := 0
			if idx := master.Table.Index("RUC"); idx >= 0 {
				n = InvalidRUCCount(master.Table, idx)
			}
			summary.InvalidRUC = &n
		}
		report.Summary = append(report.Summary, summary)
		report.TopMissing[master.Name] = TopMissing(master.Table, TopMissingLimit)
	}
	return report
}

func summarize(master *masters.Master) MasterSummary {
	t := master.Table
	summary := MasterSummary{
		Master:       master.Name,
		Records:      t.Len(),
		DuplicateIDs: master.DuplicateIDs,
	}

	if idx := t.Index(master.IDColumn); idx >= 0 {
		ids := make(map[string]struct{}, t.Len())
		for i := range t.Rows {
			if id := t.Cell(i, idx); id != "" {
				ids[id] = struct{}{}
			}
		}
		summary.UniqueIDs = len(ids)
	}

	for i := range t.Rows {
		for j := range t.Columns {
			if t.Cell(i, j) == "" {
				summary.TotalNulls++
			}
		}
	}
	return summary
}

// InvalidRUCCount counts present RUC values that are not exactly 11 digits.
func InvalidRUCCount(t *domain.Table, idx int) int {
	n := 0
	for i := range t.Rows {
		v := t.Cell(i, idx)
		if v != "" && !rucPattern.MatchString(v) {
			n++
		}
	}
	return n
}

// TopMissing ranks columns by missing share, descending, keeping only
// columns with missing values. Percentages are rounded to two decimals.
func TopMissing(t *domain.Table, limit int) []MissingField {
	out := make([]MissingField, 0, len(t.Columns))
	if t.Len() == 0 {
		return out
	}

	for j, col := range t.Columns {
		missing := 0
		for i := range t.Rows {
			if t.Cell(i, j) == "" {
				missing++
			}
		}
		if missing == 0 {
			continue
		}
		pct := float64(missing) / float64(t.Len()) * 100
		out = append(out, MissingField{Field: col, PctMissing: math.Round(pct*100) / 100})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PctMissing > out[j].PctMissing
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
