// Package stats holds the pure reductions the page renderers build on.
// Every function takes a column already selected by the caller and never
// mutates it.
package stats

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"

	"SteelDash/internal/domain/models"
)

// Reducer is a whole-column statistic, used by TailStat.
type Reducer func(values []float64) (float64, error)

// Latest returns the last value.
func Latest(values []float64) (float64, error) {
	if len(values) < 1 {
		return 0, fmt.Errorf("latest: %w", models.ErrUnderflow)
	}
	return values[len(values)-1], nil
}

// Previous returns the second-to-last value.
func Previous(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("previous: %w", models.ErrUnderflow)
	}
	return values[len(values)-2], nil
}

// Tail returns the last n values, or all of them when fewer exist.
func Tail(values []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}

// TailStat applies fn to the last window values.
func TailStat(values []float64, window int, fn Reducer) (float64, error) {
	return fn(Tail(values, window))
}

func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("mean: %w", models.ErrDegenerateInput)
	}
	return mstats.Mean(values)
}

// MeanAbs is the mean of absolute values (MAE over an error column).
func MeanAbs(values []float64) (float64, error) {
	return Mean(abs(values))
}

// Std is the sample standard deviation (denominator n-1).
func Std(values []float64) (float64, error) {
	if len(values) < 2 {
		return 0, fmt.Errorf("std over %d values: %w", len(values), models.ErrDegenerateInput)
	}
	return mstats.StandardDeviationSample(values)
}

func Min(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("min: %w", models.ErrDegenerateInput)
	}
	return mstats.Min(values)
}

func Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("max: %w", models.ErrDegenerateInput)
	}
	return mstats.Max(values)
}

// MaxAbs is the largest absolute value.
func MaxAbs(values []float64) (float64, error) {
	return Max(abs(values))
}

// RSquared computes 1 - sum(residual^2) / sum((actual - mean(actual))^2).
func RSquared(actual, residual []float64) (float64, error) {
	if len(actual) == 0 || len(actual) != len(residual) {
		return 0, fmt.Errorf("r2 over %d/%d values: %w", len(actual), len(residual), models.ErrDegenerateInput)
	}
	m, err := mstats.Mean(actual)
	if err != nil {
		return 0, err
	}
	var ssRes, ssTot float64
	for i := range actual {
		ssRes += residual[i] * residual[i]
		d := actual[i] - m
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0, fmt.Errorf("r2 with constant actuals: %w", models.ErrDegenerateInput)
	}
	return 1 - ssRes/ssTot, nil
}

// Bin is one histogram bucket covering [Lower, Upper); the last bin is closed.
type Bin struct {
	Lower float64
	Upper float64
	Count int
}

// Center is the bucket midpoint.
func (b Bin) Center() float64 { return (b.Lower + b.Upper) / 2 }

// Histogram splits values into n equal-width bins between min and max.
// Constant input yields a single bin holding every value. NaN and Inf are
// skipped.
func Histogram(values []float64, n int) ([]Bin, error) {
	values = finite(values)
	if len(values) == 0 || n <= 0 {
		return nil, fmt.Errorf("histogram: %w", models.ErrDegenerateInput)
	}
	lo, _ := mstats.Min(values)
	hi, _ := mstats.Max(values)
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(values)}}, nil
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi
	for _, v := range values {
		i := int(math.Floor((v - lo) / width))
		if i >= n {
			i = n - 1
		} else if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins, nil
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

func abs(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Abs(v)
	}
	return out
}
