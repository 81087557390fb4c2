// Package aggregate reduces per-subject, per-day behavior measurements
// into the paired subject-by-condition summary matrices the statistical
// layer consumes.
package aggregate

import (
	"fmt"
	"math"
)

// Column indices of a SummaryMatrix.
const (
	ColSolo     = 0
	ColCagemate = 1
)

// Metric identifies one of the four measured quantities.
type Metric int

const (
	// FreezeNum is the freeze event count.
	FreezeNum Metric = iota
	// FreezeDur is the total freeze duration.
	FreezeDur
	// SwayNum is the sway event count.
	SwayNum
	// SwayDur is the total sway duration.
	SwayDur
)

// Metrics lists all metrics in display order.
var Metrics = []Metric{FreezeNum, FreezeDur, SwayNum, SwayDur}

// String returns the metric's field name.
func (m Metric) String() string {
	switch m {
	case FreezeNum:
		return "FreezeNum"
	case FreezeDur:
		return "FreezeDur"
	case SwayNum:
		return "SwayNum"
	case SwayDur:
		return "SwayDur"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// AxisLabel returns a human-readable label for reports and figures.
func (m Metric) AxisLabel() string {
	switch m {
	case FreezeNum:
		return "Freeze count"
	case FreezeDur:
		return "Freeze duration (s)"
	case SwayNum:
		return "Sway count"
	case SwayDur:
		return "Sway duration (s)"
	default:
		return m.String()
	}
}

// SummaryMatrix is one metric's subject-by-condition table: one row per
// subject, column 0 Solo, column 1 Cagemate. A NaN cell means the
// subject's filtered per-day series for that condition was empty.
type SummaryMatrix [][2]float64

// Row returns row i.
func (m SummaryMatrix) Row(i int) [2]float64 {
	return m[i]
}

// PairedRows returns the indices of rows finite in both columns.
func (m SummaryMatrix) PairedRows() []int {
	var rows []int
	for i, row := range m {
		if !math.IsNaN(row[ColSolo]) && !math.IsInf(row[ColSolo], 0) &&
			!math.IsNaN(row[ColCagemate]) && !math.IsInf(row[ColCagemate], 0) {
			rows = append(rows, i)
		}
	}
	return rows
}

// Dataset is the full pipeline output: the four summary matrices plus the
// metadata a consumer needs to interpret them. Row i of every matrix and
// Rats[i] refer to the same subject; the order is the lexicographic subject
// sort fixed at build time.
type Dataset struct {
	FreezeNum SummaryMatrix `json:"FreezeNum"`
	FreezeDur SummaryMatrix `json:"FreezeDur"`
	SwayNum   SummaryMatrix `json:"SwayNum"`
	SwayDur   SummaryMatrix `json:"SwayDur"`

	// Rats lists the subject keys in row order.
	Rats []string `json:"Rats"`
	// DaysUsed lists the day labels the build actually requested.
	DaysUsed []string `json:"DaysUsed"`
	// AggFun labels the aggregation applied across days.
	AggFun string `json:"AggFun"`
}

// Matrix returns the summary matrix for a metric.
func (d *Dataset) Matrix(m Metric) SummaryMatrix {
	switch m {
	case FreezeNum:
		return d.FreezeNum
	case FreezeDur:
		return d.FreezeDur
	case SwayNum:
		return d.SwayNum
	case SwayDur:
		return d.SwayDur
	default:
		return nil
	}
}

// Validate checks the dataset's shape contract: every matrix must have
// exactly one row per subject. The builder never produces a violation;
// this guards consumers handed a dataset assembled elsewhere.
func (d *Dataset) Validate() error {
	for _, m := range Metrics {
		matrix := d.Matrix(m)
		if len(matrix) != len(d.Rats) {
			return fmt.Errorf("metric %s: %d rows for %d subjects", m, len(matrix), len(d.Rats))
		}
	}
	return nil
}
