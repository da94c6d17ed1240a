// Package analysis computes the descriptive statistics, the OLS fit and the
// hypothesis verdict for the cleaned GOTY table.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/gotystats/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// DescribeColumns are summarized in this order.
var DescribeColumns = []string{
	dataset.ColMetaScore,
	dataset.ColReviews,
	dataset.ColUserScore,
	dataset.ColVotes,
}

// ColumnStats is a describe()-style summary of one numeric column.
type ColumnStats struct {
	Name  string
	Count int
	Mean  float64
	Std   float64 // sample standard deviation (n-1)
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Summary holds ColumnStats for several columns, in request order.
type Summary struct {
	Columns []ColumnStats
}

// Describe summarizes cols of a cleaned table.
func Describe(t *dataset.Table, cols []string) (*Summary, error) {
	if t.Len() == 0 {
		return nil, fmt.Errorf("describe: %w", dataset.ErrEmptyTable)
	}
	s := &Summary{Columns: make([]ColumnStats, 0, len(cols))}
	for _, col := range cols {
		xs, err := t.Floats(col)
		if err != nil {
			return nil, fmt.Errorf("describe: %w", err)
		}
		s.Columns = append(s.Columns, DescribeValues(col, xs))
	}
	return s, nil
}

// DescribeValues computes count, mean, std, min, quartiles and max of xs.
// NaN values are ignored.
func DescribeValues(name string, xs []float64) ColumnStats {
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	cs := ColumnStats{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		cs.Mean, cs.Std, cs.Min, cs.Q25, cs.Q50, cs.Q75, cs.Max = nan, nan, nan, nan, nan, nan, nan
		return cs
	}
	sort.Float64s(vals)
	cs.Mean = stat.Mean(vals, nil)
	cs.Std = math.NaN()
	if len(vals) > 1 {
		cs.Std = stat.StdDev(vals, nil)
	}
	cs.Min = vals[0]
	cs.Max = vals[len(vals)-1]
	cs.Q25 = Quantile(vals, 0.25)
	cs.Q50 = Quantile(vals, 0.50)
	cs.Q75 = Quantile(vals, 0.75)
	return cs
}

// Skewness is the biased Fisher-Pearson coefficient m3 / m2^1.5 computed
// from population central moments. It is NaN for empty or constant input.
func Skewness(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, xs, nil)
	if m2 == 0 {
		return math.NaN()
	}
	m3 := stat.Moment(3, xs, nil)
	return m3 / math.Pow(m2, 1.5)
}

// Kurtosis is the biased Pearson kurtosis m4 / m2^2 (3 for a normal distribution).
func Kurtosis(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	m2 := stat.Moment(2, xs, nil)
	if m2 == 0 {
		return math.NaN()
	}
	return stat.Moment(4, xs, nil) / (m2 * m2)
}

// Quantile interpolates linearly between the closest ranks of sorted.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// QuantileOf sorts a copy of xs and returns its q-quantile.
func QuantileOf(xs []float64, q float64) float64 {
	cp := make([]float64, len(xs))
	copy(cp, xs)
	sort.Float64s(cp)
	return Quantile(cp, q)
}
