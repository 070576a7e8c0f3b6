package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
		wantOK bool
	}{
		{name: "odd", values: []float64{5, 1, 3}, want: 3, wantOK: true},
		{name: "even averages middles", values: []float64{6, 3, 10, 20}, want: 8, wantOK: true},
		{name: "nan ignored", values: []float64{math.NaN(), 2, 4}, want: 3, wantOK: true},
		{name: "empty", values: nil, want: 0, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedianOfSkipsMissing(t *testing.T) {
	a, b := 4.5, 3.9
	got, ok := MedianOf([]*float64{&a, nil, &b})
	assert.True(t, ok)
	assert.InDelta(t, 4.2, got, 1e-9)

	_, ok = MedianOf([]*float64{nil})
	assert.False(t, ok)
}

func TestMeanStdUsesPopulationVariance(t *testing.T) {
	mean, std := MeanStd([]float64{1, 3})
	assert.Equal(t, 2.0, mean)
	assert.Equal(t, 1.0, std)

	_, std = MeanStd([]float64{7, 7, 7})
	assert.Zero(t, std)
}

func TestMostFrequent(t *testing.T) {
	mode, ok := MostFrequent([]string{"b", "a", "b", "", "a", "c"})
	assert.True(t, ok)
	assert.Equal(t, "a", mode, "ties go to the smallest value")

	_, ok = MostFrequent([]string{"", ""})
	assert.False(t, ok)
}
