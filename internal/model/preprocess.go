package model

import (
	"fmt"
	"sort"

	"github.com/andresuchdata/wms-stockout/internal/stats"
	"github.com/rs/zerolog/log"
)

// NumericScaler imputes a column with its training median and standardizes it.
type NumericScaler struct {
	Column string  `json:"column"`
	Median float64 `json:"median"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// CategoricalEncoder imputes a column with its most frequent training value
// and one-hot encodes it. Unknown categories encode to all zeros.
type CategoricalEncoder struct {
	Column     string   `json:"column"`
	Fill       string   `json:"fill"`
	Categories []string `json:"categories"`
}

// Preprocessor turns feature rows into dense design vectors.
type Preprocessor struct {
	Numeric     []NumericScaler      `json:"numeric"`
	Categorical []CategoricalEncoder `json:"categorical"`
}

// FitPreprocessor learns imputation, scaling and encoding from rows.
func FitPreprocessor(rows []FeatureRow) (*Preprocessor, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit preprocessor on an empty dataset")
	}
	for i, r := range rows {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	p := &Preprocessor{
		Numeric:     make([]NumericScaler, 0, len(NumericFeatures)),
		Categorical: make([]CategoricalEncoder, 0, len(CategoricalFeatures)),
	}

	for _, col := range NumericFeatures {
		present := make([]float64, 0, len(rows))
		for _, r := range rows {
			if v, ok := numericValue(r[col]); ok {
				present = append(present, v)
			}
		}
		median, ok := stats.Median(present)
		if !ok {
			log.Warn().Str("column", col).Msg("numeric feature has no values, imputing 0")
		}

		imputed := make([]float64, len(rows))
		for i, r := range rows {
			if v, ok := numericValue(r[col]); ok {
				imputed[i] = v
			} else {
				imputed[i] = median
			}
		}
		mean, std := stats.MeanStd(imputed)
		if std == 0 {
			std = 1
		}
		p.Numeric = append(p.Numeric, NumericScaler{Column: col, Median: median, Mean: mean, Scale: std})
	}

	for _, col := range CategoricalFeatures {
		values := make([]string, len(rows))
		for i, r := range rows {
			values[i], _ = categoricalValue(r[col])
		}
		fill, _ := stats.MostFrequent(values)

		seen := make(map[string]struct{})
		for _, v := range values {
			if v == "" {
				v = fill
			}
			if v != "" {
				seen[v] = struct{}{}
			}
		}
		categories := make([]string, 0, len(seen))
		for v := range seen {
			categories = append(categories, v)
		}
		sort.Strings(categories)
		p.Categorical = append(p.Categorical, CategoricalEncoder{Column: col, Fill: fill, Categories: categories})
	}

	return p, nil
}

// Width is the length of a transformed vector.
func (p *Preprocessor) Width() int {
	n := len(p.Numeric)
	for _, c := range p.Categorical {
		n += len(c.Categories)
	}
	return n
}

// Transform encodes one row: scaled numerics first, then one-hot blocks.
func (p *Preprocessor) Transform(row FeatureRow) ([]float64, error) {
	if err := row.Validate(); err != nil {
		return nil, err
	}

	out := make([]float64, 0, p.Width())
	for _, n := range p.Numeric {
		v, ok := numericValue(row[n.Column])
		if !ok {
			v = n.Median
		}
		out = append(out, (v-n.Mean)/n.Scale)
	}

	for _, c := range p.Categorical {
		v, ok := categoricalValue(row[c.Column])
		if !ok {
			v = c.Fill
		}
		block := make([]float64, len(c.Categories))
		if i := sort.SearchStrings(c.Categories, v); i < len(c.Categories) && c.Categories[i] == v {
			block[i] = 1
		}
		out = append(out, block...)
	}
	return out, nil
}

// TransformAll encodes every row.
func (p *Preprocessor) TransformAll(rows []FeatureRow) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		x, err := p.Transform(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}
