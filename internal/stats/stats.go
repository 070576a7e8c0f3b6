// Package stats holds the column statistics shared by the dataset builder
// and the model preprocessing.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Median returns the median of values, averaging the two middle elements for
// even lengths. NaNs are ignored. ok is false when nothing is left.
func Median(values []float64) (median float64, ok bool) {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, false
	}
	sort.Float64s(clean)

	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid], true
	}
	return (clean[mid-1] + clean[mid]) / 2, true
}

// MedianOf returns the median of the non-nil values.
func MedianOf(values []*float64) (float64, bool) {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			present = append(present, *v)
		}
	}
	return Median(present)
}

// MeanStd returns the mean and population standard deviation of values.
func MeanStd(values []float64) (mean, std float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return stat.PopMeanStdDev(values, nil)
}

// MostFrequent returns the most common non-empty value; ties go to the
// lexically smallest. ok is false when every value is empty.
func MostFrequent(values []string) (mode string, ok bool) {
	counts := make(map[string]int)
	for _, v := range values {
		if v != "" {
			counts[v]++
		}
	}
	best := -1
	for v, n := range counts {
		if n > best || (n == best && v < mode) {
			mode, best = v, n
		}
	}
	return mode, best > 0
}
