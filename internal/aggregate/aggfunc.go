package aggregate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// AggKind identifies the reduction applied across a subject's per-day
// values for one condition.
type AggKind int

const (
	// Mean is the arithmetic mean (the default).
	Mean AggKind = iota
	// Median is the middle value, averaging the central pair for even
	// series lengths.
	Median
	// Sum is the plain total.
	Sum
	// Custom wraps a caller-supplied reduction.
	Custom
)

// AggFunc is a labeled reduction over a per-day value series. Modeling the
// choice as a tagged variant lets the dataset record its aggregation label
// structurally instead of deriving it from a function value.
type AggFunc struct {
	kind  AggKind
	label string
	fn    func([]float64) float64
}

// MeanAgg returns the arithmetic-mean reduction.
func MeanAgg() AggFunc {
	return AggFunc{kind: Mean, label: "mean", fn: func(v []float64) float64 {
		return stat.Mean(v, nil)
	}}
}

// MedianAgg returns the median reduction.
func MedianAgg() AggFunc {
	return AggFunc{kind: Median, label: "median", fn: median}
}

// SumAgg returns the sum reduction.
func SumAgg() AggFunc {
	return AggFunc{kind: Sum, label: "sum", fn: func(v []float64) float64 {
		var total float64
		for _, x := range v {
			total += x
		}
		return total
	}}
}

// CustomAgg wraps a caller-supplied reduction under the given label.
func CustomAgg(label string, fn func([]float64) float64) AggFunc {
	return AggFunc{kind: Custom, label: label, fn: fn}
}

// ParseAgg resolves an aggregation by name: one of "mean", "median", "sum".
// An empty name selects the default (mean).
func ParseAgg(name string) (AggFunc, error) {
	switch name {
	case "", "mean":
		return MeanAgg(), nil
	case "median":
		return MedianAgg(), nil
	case "sum":
		return SumAgg(), nil
	default:
		return AggFunc{}, fmt.Errorf("unknown aggregation %q (want mean, median, or sum)", name)
	}
}

// Kind returns the variant tag.
func (a AggFunc) Kind() AggKind {
	return a.kind
}

// Label returns the aggregation's display label.
func (a AggFunc) Label() string {
	return a.label
}

// Reduce applies the aggregation to a series. An empty series reduces to
// NaN, never to zero.
func (a AggFunc) Reduce(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	if a.fn == nil {
		return MeanAgg().fn(values)
	}
	return a.fn(values)
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
