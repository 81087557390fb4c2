package aggregate

import (
	"math"
	"testing"
)

func TestAggFuncReduce(t *testing.T) {
	series := []float64{2, 4, 6}

	tests := []struct {
		agg  AggFunc
		want float64
	}{
		{MeanAgg(), 4},
		{MedianAgg(), 4},
		{SumAgg(), 12},
	}

	for _, tt := range tests {
		if got := tt.agg.Reduce(series); got != tt.want {
			t.Errorf("%s.Reduce = %v, want %v", tt.agg.Label(), got, tt.want)
		}
	}
}

func TestAggFuncReduce_Empty(t *testing.T) {
	for _, agg := range []AggFunc{MeanAgg(), MedianAgg(), SumAgg()} {
		if got := agg.Reduce(nil); !math.IsNaN(got) {
			t.Errorf("%s.Reduce(empty) = %v, want NaN", agg.Label(), got)
		}
	}
}

func TestMedian_EvenLength(t *testing.T) {
	agg := MedianAgg()
	if got := agg.Reduce([]float64{4, 1, 3, 2}); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	series := []float64{3, 1, 2}
	MedianAgg().Reduce(series)
	if series[0] != 3 || series[1] != 1 || series[2] != 2 {
		t.Errorf("input mutated: %v", series)
	}
}

func TestParseAgg(t *testing.T) {
	tests := []struct {
		name      string
		wantKind  AggKind
		wantLabel string
		wantErr   bool
	}{
		{"mean", Mean, "mean", false},
		{"median", Median, "median", false},
		{"sum", Sum, "sum", false},
		{"", Mean, "mean", false}, // default
		{"max", 0, "", true},
	}

	for _, tt := range tests {
		agg, err := ParseAgg(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAgg(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAgg(%q): %v", tt.name, err)
			continue
		}
		if agg.Kind() != tt.wantKind || agg.Label() != tt.wantLabel {
			t.Errorf("ParseAgg(%q) = kind %v label %q", tt.name, agg.Kind(), agg.Label())
		}
	}
}

func TestCustomAgg(t *testing.T) {
	agg := CustomAgg("max", func(v []float64) float64 {
		best := v[0]
		for _, x := range v[1:] {
			if x > best {
				best = x
			}
		}
		return best
	})

	if agg.Kind() != Custom {
		t.Errorf("kind = %v, want Custom", agg.Kind())
	}
	if agg.Label() != "max" {
		t.Errorf("label = %q, want max", agg.Label())
	}
	if got := agg.Reduce([]float64{1, 7, 3}); got != 7 {
		t.Errorf("Reduce = %v, want 7", got)
	}
}
