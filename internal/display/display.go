// Package display renders the analysis summary as a colored terminal
// table.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/fatih/color"

	"cagestat/internal/aggregate"
	"cagestat/internal/pairstat"
)

// scheme defines consistent colors for table elements: cyan for labels,
// green for significant results, yellow for untested metrics.
type scheme struct {
	label       *color.Color
	significant *color.Color
	noTest      *color.Color
	value       *color.Color
}

func newScheme() *scheme {
	return &scheme{
		label:       color.New(color.FgCyan),
		significant: color.New(color.FgGreen),
		noTest:      color.New(color.FgYellow),
		value:       color.New(color.FgWhite),
	}
}

// Summary formats the dataset and its comparison results as a terminal
// table. Metrics whose matrix fails shape validation are reported and
// skipped, never fatal.
func Summary(ds *aggregate.Dataset, results []pairstat.Result) string {
	sc := newScheme()
	var sb strings.Builder

	sb.WriteString(sc.label.Sprint("=== SOLO vs CAGEMATE ===") + "\n\n")
	sb.WriteString(fmt.Sprintf("Subjects:    %d (%s)\n", len(ds.Rats), strings.Join(ds.Rats, ", ")))
	sb.WriteString(fmt.Sprintf("Days:        %s\n", strings.Join(ds.DaysUsed, ", ")))
	sb.WriteString(fmt.Sprintf("Aggregation: %s\n\n", ds.AggFun))

	byMetric := make(map[string]pairstat.Result, len(results))
	for _, r := range results {
		byMetric[r.Metric] = r
	}

	sb.WriteString(fmt.Sprintf("%-22s %-8s %-12s %-10s %-6s %s\n",
		"Metric", "Pairs", "p-value", "W", "Band", "Method"))
	sb.WriteString(strings.Repeat("-", 70) + "\n")

	for _, m := range aggregate.Metrics {
		if len(ds.Matrix(m)) != len(ds.Rats) {
			sb.WriteString(sc.noTest.Sprintf("%-22s skipped: malformed matrix\n", m.AxisLabel()))
			continue
		}

		res, ok := byMetric[m.String()]
		if !ok {
			continue
		}

		band := pairstat.Stars(res.PValue)
		line := fmt.Sprintf("%-22s %-8d %-12s %-10s %-6s %s",
			m.AxisLabel(), res.Pairs, formatP(res.PValue), formatW(res.Statistic), band, res.Method)

		switch {
		case res.Significant:
			sb.WriteString(sc.significant.Sprint(line) + "\n")
		case !res.Tested():
			sb.WriteString(sc.noTest.Sprint(line) + "\n")
		default:
			sb.WriteString(sc.value.Sprint(line) + "\n")
		}
	}

	return sb.String()
}

func formatP(p float64) string {
	if math.IsNaN(p) {
		return "no test"
	}
	return fmt.Sprintf("%.4g", p)
}

func formatW(w float64) string {
	if math.IsNaN(w) {
		return "-"
	}
	return fmt.Sprintf("%g", w)
}
