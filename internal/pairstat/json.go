package pairstat

import (
	"encoding/json"
	"math"
)

// resultJSON is the wire form of Result. NaN is not representable in
// JSON, so the untested sentinel round-trips as null.
type resultJSON struct {
	Metric      string   `json:"metric"`
	PValue      *float64 `json:"p_value"`
	Statistic   *float64 `json:"statistic"`
	Method      string   `json:"method,omitempty"`
	Pairs       int      `json:"pairs"`
	Subjects    []string `json:"subjects"`
	Alpha       float64  `json:"alpha"`
	Significant bool     `json:"significant"`
}

// MarshalJSON encodes NaN p-values and statistics as null.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Metric:      r.Metric,
		PValue:      floatPtr(r.PValue),
		Statistic:   floatPtr(r.Statistic),
		Method:      r.Method,
		Pairs:       r.Pairs,
		Subjects:    r.Subjects,
		Alpha:       r.Alpha,
		Significant: r.Significant,
	})
}

// UnmarshalJSON restores null p-values and statistics to NaN.
func (r *Result) UnmarshalJSON(data []byte) error {
	var wire resultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	r.Metric = wire.Metric
	r.PValue = floatValue(wire.PValue)
	r.Statistic = floatValue(wire.Statistic)
	r.Method = wire.Method
	r.Pairs = wire.Pairs
	r.Subjects = wire.Subjects
	r.Alpha = wire.Alpha
	r.Significant = wire.Significant
	return nil
}

func floatPtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func floatValue(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}
