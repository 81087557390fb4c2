// Package pairstat runs the paired two-sided Wilcoxon signed-rank test on
// a metric's subject-by-condition summary matrix.
package pairstat

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// Method labels recorded in results.
const (
	MethodApprox = "normal-approximation"
	MethodExact  = "exact"
)

// Minimum number of non-zero differences before the large-sample normal
// approximation is considered available.
const largeSampleN = 10

// ErrAllZeroDiffs means every paired difference was zero, so neither the
// approximate nor the exact method can produce a test statistic.
var ErrAllZeroDiffs = errors.New("all paired differences are zero")

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// signedRank runs the two-sided paired Wilcoxon signed-rank test on two
// equal-length samples. Zero differences are dropped before ranking. The
// large-sample normal approximation (with midrank tie correction) is
// preferred; when it is not computable the exact null distribution of the
// positive-rank sum is enumerated instead. The returned statistic is the
// smaller of the positive- and negative-rank sums.
func signedRank(x, y []float64) (statistic, p float64, method string, err error) {
	diffs := make([]float64, 0, len(x))
	for i := range x {
		if d := y[i] - x[i]; d != 0 {
			diffs = append(diffs, d)
		}
	}
	n := len(diffs)
	if n == 0 {
		return math.NaN(), math.NaN(), "", ErrAllZeroDiffs
	}

	ranks, tieCorrection := midranks(diffs)

	var wPlus float64
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		}
	}
	total := float64(n*(n+1)) / 2
	wMinus := total - wPlus
	statistic = math.Min(wPlus, wMinus)

	mu := total / 2
	variance := float64(n*(n+1)*(2*n+1))/24 - tieCorrection/48

	if n >= largeSampleN && variance > 0 {
		z := (statistic - mu) / math.Sqrt(variance)
		p = 2 * stdNormal.CDF(z)
		if p > 1 {
			p = 1
		}
		return statistic, p, MethodApprox, nil
	}

	p = exactPValue(ranks, wPlus)
	return statistic, p, MethodExact, nil
}

// midranks ranks the absolute differences, assigning the average rank to
// ties, and returns the tie-correction term sum(t^3 - t) over tie groups.
func midranks(diffs []float64) (ranks []float64, tieCorrection float64) {
	n := len(diffs)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return math.Abs(diffs[order[a]]) < math.Abs(diffs[order[b]])
	})

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && math.Abs(diffs[order[j]]) == math.Abs(diffs[order[i]]) {
			j++
		}
		// Positions i..j-1 are tied; each gets the average rank.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[order[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			tieCorrection += t*t*t - t
		}
		i = j
	}
	return ranks, tieCorrection
}

// exactPValue enumerates the null distribution of the positive-rank sum by
// dynamic programming. Ranks are doubled so midranks become integers; the
// distribution over all 2^n sign assignments is then a polynomial product.
func exactPValue(ranks []float64, wPlus float64) float64 {
	n := len(ranks)

	doubled := make([]int, n)
	maxSum := 0
	for i, r := range ranks {
		doubled[i] = int(math.Round(2 * r))
		maxSum += doubled[i]
	}

	counts := make([]float64, maxSum+1)
	counts[0] = 1
	for _, r := range doubled {
		for s := maxSum; s >= r; s-- {
			counts[s] += counts[s-r]
		}
	}

	target := int(math.Round(2 * wPlus))
	var lower, upper, totalCount float64
	for s, c := range counts {
		totalCount += c
		if s <= target {
			lower += c
		}
		if s >= target {
			upper += c
		}
	}

	p := 2 * math.Min(lower, upper) / totalCount
	if p > 1 {
		p = 1
	}
	return p
}
