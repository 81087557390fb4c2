package pairstat

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"cagestat/internal/aggregate"
)

// DefaultAlpha is the standard significance threshold.
const DefaultAlpha = 0.05

// Result is the outcome of one metric's paired comparison. When fewer than
// two finite pairs exist the test is not attempted and both PValue and
// Statistic are NaN; consumers must render that as "no test", not an error.
type Result struct {
	Metric      string
	PValue      float64
	Statistic   float64
	Method      string
	Pairs       int
	Subjects    []string
	Alpha       float64
	Significant bool
}

// Tested reports whether a test was actually run.
func (r Result) Tested() bool {
	return !math.IsNaN(r.PValue)
}

// Comparator runs paired comparisons at a fixed significance threshold.
type Comparator struct {
	alpha  float64
	logger *zap.Logger
}

// NewComparator creates a Comparator. Alpha values outside (0,1) fall back
// to DefaultAlpha; a nil logger disables logging.
func NewComparator(alpha float64, logger *zap.Logger) *Comparator {
	if alpha <= 0 || alpha >= 1 {
		alpha = DefaultAlpha
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Comparator{alpha: alpha, logger: logger}
}

// Compare filters a metric's matrix to subjects finite in both columns and
// runs the signed-rank test on the surviving pairs. subjects must be the
// dataset's row-ordered subject list. An error is returned only when both
// statistical methods are unusable (degenerate data); insufficient pairs
// is a NaN result, not an error.
func (c *Comparator) Compare(metric string, matrix aggregate.SummaryMatrix, subjects []string) (Result, error) {
	result := Result{
		Metric:    metric,
		PValue:    math.NaN(),
		Statistic: math.NaN(),
		Alpha:     c.alpha,
	}

	paired := matrix.PairedRows()
	result.Pairs = len(paired)

	solo := make([]float64, 0, len(paired))
	cagemate := make([]float64, 0, len(paired))
	for _, i := range paired {
		solo = append(solo, matrix[i][aggregate.ColSolo])
		cagemate = append(cagemate, matrix[i][aggregate.ColCagemate])
		if i < len(subjects) {
			result.Subjects = append(result.Subjects, subjects[i])
		}
	}

	if len(paired) < 2 {
		c.logger.Debug("insufficient pairs, test skipped",
			zap.String("metric", metric), zap.Int("pairs", len(paired)))
		return result, nil
	}

	statistic, p, method, err := signedRank(solo, cagemate)
	if err != nil {
		return result, fmt.Errorf("signed-rank test for %s: %w", metric, err)
	}

	result.Statistic = statistic
	result.PValue = p
	result.Method = method
	result.Significant = p < c.alpha

	c.logger.Debug("paired comparison complete",
		zap.String("metric", metric),
		zap.Float64("p", p),
		zap.Float64("statistic", statistic),
		zap.String("method", method),
		zap.Int("pairs", len(paired)))

	return result, nil
}

// CompareAll runs Compare over every metric in the dataset. Metrics whose
// test degenerates are reported with NaN p-values and the error is joined
// into the returned slice of failures rather than aborting the batch.
func (c *Comparator) CompareAll(ds *aggregate.Dataset) ([]Result, []error) {
	results := make([]Result, 0, len(aggregate.Metrics))
	var failures []error

	for _, m := range aggregate.Metrics {
		res, err := c.Compare(m.String(), ds.Matrix(m), ds.Rats)
		if err != nil {
			failures = append(failures, err)
		}
		results = append(results, res)
	}
	return results, failures
}

// Stars maps a p-value to its significance band: three stars below 0.001,
// two below 0.01, one below 0.05, and "n.s." otherwise or when the
// p-value is not finite.
func Stars(p float64) string {
	switch {
	case math.IsNaN(p) || math.IsInf(p, 0):
		return "n.s."
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return "n.s."
	}
}
