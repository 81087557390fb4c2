package aggregate

import (
	"math"

	"go.uber.org/zap"

	"cagestat/internal/condition"
	"cagestat/internal/intervals"
	"cagestat/internal/records"
)

// DefaultDays returns the standard eight-day observation window D1..D8.
func DefaultDays() []string {
	return []string{"D1", "D2", "D3", "D4", "D5", "D6", "D7", "D8"}
}

// Builder assembles datasets from a record store. It holds no mutable
// state across builds; two builds over the same input produce identical
// datasets.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a Builder. A nil logger disables logging.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Build aggregates every discovered subject over the requested day labels
// and assembles the four summary matrices in fixed subject order.
func (b *Builder) Build(store *records.Store, days []string, agg AggFunc) *Dataset {
	if len(days) == 0 {
		days = DefaultDays()
	}

	subjects := store.Subjects()
	ds := &Dataset{
		FreezeNum: make(SummaryMatrix, 0, len(subjects)),
		FreezeDur: make(SummaryMatrix, 0, len(subjects)),
		SwayNum:   make(SummaryMatrix, 0, len(subjects)),
		SwayDur:   make(SummaryMatrix, 0, len(subjects)),
		Rats:      subjects,
		DaysUsed:  append([]string(nil), days...),
		AggFun:    agg.Label(),
	}

	for _, subject := range subjects {
		rows := b.aggregateSubject(subject, store.Days(subject), days, agg)
		ds.FreezeNum = append(ds.FreezeNum, rows[FreezeNum])
		ds.FreezeDur = append(ds.FreezeDur, rows[FreezeDur])
		ds.SwayNum = append(ds.SwayNum, rows[SwayNum])
		ds.SwayDur = append(ds.SwayDur, rows[SwayDur])
	}

	b.logger.Debug("dataset built",
		zap.Int("subjects", len(subjects)),
		zap.Strings("days", days),
		zap.String("agg", agg.Label()))

	return ds
}

// series collects the per-day values for one metric under both conditions
// before reduction. Non-finite values are never appended: a day with no
// data contributes nothing, not a zero.
type series struct {
	values [2][]float64
}

func (s *series) add(cond condition.Condition, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	switch cond {
	case condition.Solo:
		s.values[ColSolo] = append(s.values[ColSolo], v)
	case condition.Cagemate:
		s.values[ColCagemate] = append(s.values[ColCagemate], v)
	}
}

func (s *series) reduce(agg AggFunc) [2]float64 {
	return [2]float64{
		agg.Reduce(s.values[ColSolo]),
		agg.Reduce(s.values[ColCagemate]),
	}
}

// aggregateSubject walks the requested days for one subject, classifies
// each day's condition, measures the four metrics, and reduces each
// metric/condition series to a scalar. Missing days, Unknown conditions,
// and days without an interval container are skipped silently.
func (b *Builder) aggregateSubject(subject string, days records.SubjectDays, labels []string, agg AggFunc) [4][2]float64 {
	var collected [4]series

	for _, label := range labels {
		rec, ok := days[label]
		if !ok {
			continue
		}

		cond := condition.Classify(rec)
		if cond == condition.Unknown {
			b.logger.Debug("day excluded: unknown condition",
				zap.String("subject", subject), zap.String("day", label))
			continue
		}

		container, ok := rec.Container()
		if !ok {
			b.logger.Debug("day excluded: no interval container",
				zap.String("subject", subject), zap.String("day", label))
			continue
		}

		freezeNum, freezeDur := intervals.Measure(container, intervals.FreezeAliases)
		swayNum, swayDur := intervals.Measure(container, intervals.SwayAliases)

		collected[FreezeNum].add(cond, freezeNum)
		collected[FreezeDur].add(cond, freezeDur)
		collected[SwayNum].add(cond, swayNum)
		collected[SwayDur].add(cond, swayDur)
	}

	var rows [4][2]float64
	for _, m := range Metrics {
		rows[m] = collected[m].reduce(agg)
	}
	return rows
}
