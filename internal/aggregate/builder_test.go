package aggregate

import (
	"math"
	"testing"

	"cagestat/internal/records"
)

func twoSubjectStore() *records.Store {
	return records.NewStore(map[string]records.SubjectDays{
		"CH1": {
			"D1": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 2}, {Start: 3, End: 4}},
			}),
			"D2": records.NewDayRecord("cagemate", "", records.IntervalSet{
				"sway": {{Start: 0, End: 1}},
			}),
		},
		"CH2": {
			"D1": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 1, End: 2}},
				"sway":     {{Start: 0, End: 0.5}},
			}),
			"D2": records.NewDayRecord("paired", "", records.IntervalSet{
				"freeze": {{Start: 0, End: 3}},
			}),
		},
	})
}

func TestBuild_EndToEnd(t *testing.T) {
	builder := NewBuilder(nil)
	ds := builder.Build(twoSubjectStore(), []string{"D1", "D2"}, MeanAgg())

	if len(ds.Rats) != 2 || ds.Rats[0] != "CH1" || ds.Rats[1] != "CH2" {
		t.Fatalf("Rats = %v", ds.Rats)
	}
	if err := ds.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if ds.AggFun != "mean" {
		t.Errorf("AggFun = %q", ds.AggFun)
	}
	if len(ds.DaysUsed) != 2 {
		t.Errorf("DaysUsed = %v", ds.DaysUsed)
	}

	// CH1: D1 solo has 2 freeze events totalling 3s; D2 cagemate has no
	// freeze field at all. A single-value series aggregates to itself.
	ch1 := 0
	if got := ds.FreezeNum[ch1]; got[ColSolo] != 2 || !math.IsNaN(got[ColCagemate]) {
		t.Errorf("CH1 FreezeNum = %v, want [2 NaN]", got)
	}
	if got := ds.FreezeDur[ch1]; got[ColSolo] != 3 || !math.IsNaN(got[ColCagemate]) {
		t.Errorf("CH1 FreezeDur = %v, want [3 NaN]", got)
	}
	// CH1 sway: only the cagemate day scored sway.
	if got := ds.SwayNum[ch1]; !math.IsNaN(got[ColSolo]) || got[ColCagemate] != 1 {
		t.Errorf("CH1 SwayNum = %v, want [NaN 1]", got)
	}

	// CH2: freeze on both days ("paired" classifies Cagemate, "freeze"
	// alias resolves).
	ch2 := 1
	if got := ds.FreezeNum[ch2]; got[ColSolo] != 1 || got[ColCagemate] != 1 {
		t.Errorf("CH2 FreezeNum = %v, want [1 1]", got)
	}
	if got := ds.FreezeDur[ch2]; got[ColSolo] != 1 || got[ColCagemate] != 3 {
		t.Errorf("CH2 FreezeDur = %v, want [1 3]", got)
	}
}

func TestBuild_UnknownConditionExcluded(t *testing.T) {
	store := records.NewStore(map[string]records.SubjectDays{
		"CH1": {
			"D1": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 1}},
			}),
			// Unknown condition: contributes to no series, not even as zero.
			"D2": records.NewDayRecord("baseline", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 9}},
			}),
		},
	})

	ds := NewBuilder(nil).Build(store, []string{"D1", "D2"}, SumAgg())

	if got := ds.FreezeDur[0][ColSolo]; got != 1 {
		t.Errorf("solo FreezeDur = %v, want 1 (unknown day excluded)", got)
	}
	if got := ds.FreezeDur[0][ColCagemate]; !math.IsNaN(got) {
		t.Errorf("cagemate FreezeDur = %v, want NaN", got)
	}
}

func TestBuild_MissingDaysSkipped(t *testing.T) {
	store := records.NewStore(map[string]records.SubjectDays{
		"CH1": {
			"D3": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 2}},
			}),
		},
	})

	// D1 and D2 are requested but absent; only D3 contributes.
	ds := NewBuilder(nil).Build(store, []string{"D1", "D2", "D3"}, MeanAgg())

	if got := ds.FreezeNum[0][ColSolo]; got != 1 {
		t.Errorf("FreezeNum = %v, want 1", got)
	}
}

func TestBuild_DayWithoutContainerSkipped(t *testing.T) {
	store := records.NewStore(map[string]records.SubjectDays{
		"CH1": {
			"D1": records.NewDayRecord("solo", "", nil),
			"D2": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 2}},
			}),
		},
	})

	ds := NewBuilder(nil).Build(store, []string{"D1", "D2"}, SumAgg())

	// D1 has no interval container: the whole day is skipped, so the sum
	// reflects D2 alone.
	if got := ds.FreezeDur[0][ColSolo]; got != 2 {
		t.Errorf("FreezeDur = %v, want 2", got)
	}
}

func TestBuild_SumSkipsNaNDays(t *testing.T) {
	// Days whose metric is NaN (no data) are never appended, so the series
	// [2,4,NaN,6] reduces as [2,4,6].
	store := records.NewStore(map[string]records.SubjectDays{
		"CH1": {
			"D1": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 2}, {Start: 3, End: 4}},
			}),
			"D2": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 1}, {Start: 2, End: 3}, {Start: 4, End: 5}, {Start: 6, End: 7}},
			}),
			"D3": records.NewDayRecord("solo", "", records.IntervalSet{
				"sway": {{Start: 0, End: 1}},
			}),
			"D4": records.NewDayRecord("solo", "", records.IntervalSet{
				"freezing": {{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3},
					{Start: 3, End: 4}, {Start: 4, End: 5}, {Start: 5, End: 6}},
			}),
		},
	})

	ds := NewBuilder(nil).Build(store, []string{"D1", "D2", "D3", "D4"}, SumAgg())
	if got := ds.FreezeNum[0][ColSolo]; got != 12 {
		t.Errorf("sum FreezeNum = %v, want 12", got)
	}

	ds = NewBuilder(nil).Build(store, []string{"D1", "D2", "D3", "D4"}, MeanAgg())
	if got := ds.FreezeNum[0][ColSolo]; got != 4 {
		t.Errorf("mean FreezeNum = %v, want 4", got)
	}
}

func TestBuild_DefaultDays(t *testing.T) {
	ds := NewBuilder(nil).Build(twoSubjectStore(), nil, MeanAgg())
	if len(ds.DaysUsed) != 8 || ds.DaysUsed[0] != "D1" || ds.DaysUsed[7] != "D8" {
		t.Errorf("DaysUsed = %v, want D1..D8", ds.DaysUsed)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	store := twoSubjectStore()
	builder := NewBuilder(nil)

	a := builder.Build(store, []string{"D1", "D2"}, MeanAgg())
	b := builder.Build(store, []string{"D1", "D2"}, MeanAgg())

	for _, m := range Metrics {
		ma, mb := a.Matrix(m), b.Matrix(m)
		if len(ma) != len(mb) {
			t.Fatalf("%s: row count differs", m)
		}
		for i := range ma {
			for c := 0; c < 2; c++ {
				// Bitwise comparison so NaN cells compare equal.
				if math.Float64bits(ma[i][c]) != math.Float64bits(mb[i][c]) {
					t.Errorf("%s[%d][%d]: %v != %v", m, i, c, ma[i][c], mb[i][c])
				}
			}
		}
	}
}

func TestDatasetValidate_ShapeMismatch(t *testing.T) {
	ds := NewBuilder(nil).Build(twoSubjectStore(), []string{"D1"}, MeanAgg())
	ds.SwayDur = ds.SwayDur[:1] // simulate external misuse

	if err := ds.Validate(); err == nil {
		t.Error("expected a shape mismatch error")
	}
}

func TestPairedRows(t *testing.T) {
	m := SummaryMatrix{
		{1, 2},
		{3, math.NaN()},
		{5, 6},
		{math.Inf(1), 7},
	}

	rows := m.PairedRows()
	if len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Errorf("PairedRows = %v, want [0 2]", rows)
	}
}
