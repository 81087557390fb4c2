// Package export renders a built dataset and its paired-test results into
// the formats downstream reporting and plotting tools consume.
package export

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"cagestat/internal/aggregate"
	"cagestat/internal/filelock"
	"cagestat/internal/pairstat"
)

// Report bundles a dataset with its per-metric comparison results.
type Report struct {
	Dataset     *aggregate.Dataset `json:"dataset"`
	Results     []pairstat.Result  `json:"results"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// NewReport creates a report stamped with the current time.
func NewReport(ds *aggregate.Dataset, results []pairstat.Result) *Report {
	return &Report{Dataset: ds, Results: results, GeneratedAt: time.Now()}
}

// result returns the comparison result for a metric, if present.
func (r *Report) result(m aggregate.Metric) (pairstat.Result, bool) {
	for _, res := range r.Results {
		if res.Metric == m.String() {
			return res, true
		}
	}
	return pairstat.Result{}, false
}

// JSON renders the report as JSON. NaN cells are not representable in
// JSON, so matrices are emitted through a nullable wrapper: NaN becomes
// null.
func JSON(r *Report, pretty bool) (string, error) {
	if r == nil || r.Dataset == nil {
		return "", fmt.Errorf("report has no dataset")
	}
	if err := r.Dataset.Validate(); err != nil {
		return "", fmt.Errorf("invalid dataset: %w", err)
	}

	wrapped := jsonReport{
		Rats:        r.Dataset.Rats,
		DaysUsed:    r.Dataset.DaysUsed,
		AggFun:      r.Dataset.AggFun,
		Metrics:     make(map[string][][2]*float64, len(aggregate.Metrics)),
		Results:     make([]jsonResult, 0, len(r.Results)),
		GeneratedAt: r.GeneratedAt,
	}
	for _, m := range aggregate.Metrics {
		wrapped.Metrics[m.String()] = nullableMatrix(r.Dataset.Matrix(m))
	}
	for _, res := range r.Results {
		wrapped.Results = append(wrapped.Results, jsonResult{
			Metric:      res.Metric,
			PValue:      nullable(res.PValue),
			Statistic:   nullable(res.Statistic),
			Method:      res.Method,
			Pairs:       res.Pairs,
			Subjects:    res.Subjects,
			Alpha:       res.Alpha,
			Significant: res.Significant,
			Band:        pairstat.Stars(res.PValue),
		})
	}

	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(wrapped, "", "  ")
	} else {
		data, err = json.Marshal(wrapped)
	}
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(data), nil
}

type jsonReport struct {
	Rats        []string                 `json:"Rats"`
	DaysUsed    []string                 `json:"DaysUsed"`
	AggFun      string                   `json:"AggFun"`
	Metrics     map[string][][2]*float64 `json:"metrics"`
	Results     []jsonResult             `json:"results"`
	GeneratedAt time.Time                `json:"generated_at"`
}

type jsonResult struct {
	Metric      string   `json:"metric"`
	PValue      *float64 `json:"p_value"`
	Statistic   *float64 `json:"statistic"`
	Method      string   `json:"method,omitempty"`
	Pairs       int      `json:"pairs"`
	Subjects    []string `json:"subjects"`
	Alpha       float64  `json:"alpha"`
	Significant bool     `json:"significant"`
	Band        string   `json:"band"`
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func nullableMatrix(m aggregate.SummaryMatrix) [][2]*float64 {
	out := make([][2]*float64, len(m))
	for i, row := range m {
		out[i] = [2]*float64{nullable(row[0]), nullable(row[1])}
	}
	return out
}

// CSV renders the summary matrices as long-format CSV: one line per
// subject per metric, with empty cells for NaN.
func CSV(r *Report) (string, error) {
	if r == nil || r.Dataset == nil {
		return "", fmt.Errorf("report has no dataset")
	}
	if err := r.Dataset.Validate(); err != nil {
		return "", fmt.Errorf("invalid dataset: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("subject,metric,solo,cagemate\n")
	for _, m := range aggregate.Metrics {
		matrix := r.Dataset.Matrix(m)
		for i, subject := range r.Dataset.Rats {
			sb.WriteString(fmt.Sprintf("%s,%s,%s,%s\n",
				subject, m, csvCell(matrix[i][0]), csvCell(matrix[i][1])))
		}
	}
	return sb.String(), nil
}

func csvCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return fmt.Sprintf("%g", v)
}

// Markdown renders a human-readable report: one table per metric plus the
// paired-test summary line. Metrics whose matrix fails shape validation
// are skipped with a note rather than aborting the whole report.
func Markdown(r *Report) (string, error) {
	if r == nil || r.Dataset == nil {
		return "", fmt.Errorf("report has no dataset")
	}

	var sb strings.Builder
	sb.WriteString("# Solo vs Cagemate Comparison\n\n")
	sb.WriteString(fmt.Sprintf("**Generated**: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("- **Subjects**: %d\n", len(r.Dataset.Rats)))
	sb.WriteString(fmt.Sprintf("- **Days**: %s\n", strings.Join(r.Dataset.DaysUsed, ", ")))
	sb.WriteString(fmt.Sprintf("- **Aggregation**: %s\n\n", r.Dataset.AggFun))

	for _, m := range aggregate.Metrics {
		matrix := r.Dataset.Matrix(m)
		sb.WriteString(fmt.Sprintf("## %s\n\n", m.AxisLabel()))

		if len(matrix) != len(r.Dataset.Rats) {
			sb.WriteString("_Skipped: matrix shape does not match subject list._\n\n")
			continue
		}

		sb.WriteString("| Subject | Solo | Cagemate |\n")
		sb.WriteString("|---|---|---|\n")
		for i, subject := range r.Dataset.Rats {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n",
				subject, mdCell(matrix[i][0]), mdCell(matrix[i][1])))
		}
		sb.WriteString("\n")

		if res, ok := r.result(m); ok {
			if res.Tested() {
				sb.WriteString(fmt.Sprintf("Wilcoxon signed-rank (%s): p = %.4g, W = %g, n = %d pairs — %s\n\n",
					res.Method, res.PValue, res.Statistic, res.Pairs, pairstat.Stars(res.PValue)))
			} else {
				sb.WriteString(fmt.Sprintf("No test: %d finite pair(s), need at least 2.\n\n", res.Pairs))
			}
		}
	}
	return sb.String(), nil
}

func mdCell(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "—"
	}
	return fmt.Sprintf("%.3f", v)
}

// HTML renders the Markdown report to HTML. The table extension is needed
// because the per-metric matrices render as pipe tables.
func HTML(r *Report) (string, error) {
	md, err := Markdown(r)
	if err != nil {
		return "", err
	}

	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf strings.Builder
	if err := converter.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("convert report to html: %w", err)
	}
	return buf.String(), nil
}

// WriteFile writes rendered content atomically.
func WriteFile(path, content string) error {
	return filelock.AtomicWrite(path, []byte(content))
}
