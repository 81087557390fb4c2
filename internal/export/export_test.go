package export

import (
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cagestat/internal/aggregate"
	"cagestat/internal/pairstat"
)

func sampleReport() *Report {
	ds := &aggregate.Dataset{
		FreezeNum: aggregate.SummaryMatrix{{2, math.NaN()}, {1, 3}},
		FreezeDur: aggregate.SummaryMatrix{{3, math.NaN()}, {1.5, 4}},
		SwayNum:   aggregate.SummaryMatrix{{math.NaN(), 1}, {2, 2}},
		SwayDur:   aggregate.SummaryMatrix{{math.NaN(), 0.5}, {1, 1}},
		Rats:      []string{"CH1", "CH2"},
		DaysUsed:  []string{"D1", "D2"},
		AggFun:    "mean",
	}
	results := []pairstat.Result{
		{Metric: "FreezeNum", PValue: 0.02, Statistic: 1, Method: pairstat.MethodExact,
			Pairs: 1, Subjects: []string{"CH2"}, Alpha: 0.05, Significant: true},
		{Metric: "FreezeDur", PValue: math.NaN(), Statistic: math.NaN(), Pairs: 1, Alpha: 0.05},
	}
	return NewReport(ds, results)
}

func TestJSON(t *testing.T) {
	out, err := JSON(sampleReport(), true)
	require.NoError(t, err)

	assert.Contains(t, out, `"Rats"`)
	assert.Contains(t, out, `"AggFun": "mean"`)
	assert.Contains(t, out, `"FreezeNum"`)
	// NaN cells serialize as null.
	assert.Contains(t, out, "null")
	assert.NotContains(t, out, "NaN")
	// Banding is included for consumers.
	assert.Contains(t, out, `"band": "*"`)
}

func TestJSON_InvalidDataset(t *testing.T) {
	r := sampleReport()
	r.Dataset.SwayNum = r.Dataset.SwayNum[:1]

	_, err := JSON(r, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SwayNum")
}

func TestCSV(t *testing.T) {
	out, err := CSV(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// Header plus 4 metrics x 2 subjects.
	require.Len(t, lines, 9)
	assert.Equal(t, "subject,metric,solo,cagemate", lines[0])
	assert.Equal(t, "CH1,FreezeNum,2,", lines[1])
	assert.Equal(t, "CH2,FreezeNum,1,3", lines[2])
}

func TestMarkdown(t *testing.T) {
	out, err := Markdown(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "# Solo vs Cagemate Comparison")
	assert.Contains(t, out, "## Freeze count")
	assert.Contains(t, out, "| CH1 |")
	assert.Contains(t, out, "p = 0.02")
	// The untested metric reports missing pairs instead of a p-value.
	assert.Contains(t, out, "No test: 1 finite pair(s)")
	// NaN cells render as an em dash placeholder.
	assert.Contains(t, out, "—")
}

func TestMarkdown_SkipsMalformedMatrix(t *testing.T) {
	r := sampleReport()
	r.Dataset.SwayDur = r.Dataset.SwayDur[:1]

	out, err := Markdown(r)
	require.NoError(t, err)
	assert.Contains(t, out, "_Skipped: matrix shape does not match subject list._")
	// Other metrics are still rendered.
	assert.Contains(t, out, "## Freeze count")
}

func TestHTML(t *testing.T) {
	out, err := HTML(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
}

func TestFigurePath(t *testing.T) {
	got := FigurePath("figures", "mean", "FreezeDur", "late")
	want := filepath.Join("figures", "mean", "mean_FreezeDur_late.png")
	assert.Equal(t, want, got)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteFile(path, "{}"))

	data, err := JSON(sampleReport(), false)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, data))
}
