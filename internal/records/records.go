// Package records models the raw observation store: per-subject, per-day
// behavioral records as they come off the scoring sheets. Records are
// read-only once loaded; malformed entries are tolerated and surface as
// "no data" rather than errors.
package records

import (
	"sort"
)

// Interval is one scored behavior bout. End is not guaranteed to be at or
// after Start; duration computations must clamp negative spans to zero.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// IntervalSet maps a behavior field name to its scored intervals.
// A key present with a nil value means the behavior was listed but never
// scored (no data); a non-nil empty slice means zero observed events.
type IntervalSet map[string][]Interval

// DayRecord holds one subject's observations for a single day.
type DayRecord struct {
	// Condition is the primary free-text condition indicator.
	Condition string

	// Note is the secondary free-text field consulted when the primary
	// field alone does not identify a condition.
	Note string

	// Behaviors is the preferred interval container.
	Behaviors IntervalSet

	// Intervals is the fallback interval container, consulted only when
	// Behaviors is absent.
	Intervals IntervalSet

	// Extra holds fields that are not part of the recognized record
	// shape. They are carried through untouched for audit purposes.
	Extra map[string]any

	wellFormed bool
}

// WellFormed reports whether the day value decoded as a structured record.
// A day whose raw value was not a mapping is retained but never classified.
func (d DayRecord) WellFormed() bool {
	return d.wellFormed
}

// Container returns the day's interval container, preferring Behaviors and
// falling back to Intervals. The second return is false when neither exists.
func (d DayRecord) Container() (IntervalSet, bool) {
	if d.Behaviors != nil {
		return d.Behaviors, true
	}
	if d.Intervals != nil {
		return d.Intervals, true
	}
	return nil, false
}

// NewDayRecord builds a well-formed day record for callers assembling
// stores programmatically rather than from a file.
func NewDayRecord(condition, note string, behaviors IntervalSet) DayRecord {
	return DayRecord{
		Condition:  condition,
		Note:       note,
		Behaviors:  behaviors,
		wellFormed: true,
	}
}

// SubjectDays maps a day label (e.g. "D1") to that day's record.
type SubjectDays map[string]DayRecord

// SubjectRule decides whether a top-level store key names a subject.
// Subjects are discovered, not declared, so the rule is injectable.
type SubjectRule func(key string) bool

// DefaultSubjectRule accepts keys of the form letters-then-digits, such as
// "CH1" or "RAT12". Keys with no leading letters or no trailing digits are
// treated as store metadata, not subjects.
func DefaultSubjectRule(key string) bool {
	if key == "" {
		return false
	}
	i := 0
	for i < len(key) && isLetter(key[i]) {
		i++
	}
	if i == 0 || i == len(key) {
		return false
	}
	for j := i; j < len(key); j++ {
		if key[j] < '0' || key[j] > '9' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Store is the loaded record store: discovered subjects plus whatever
// non-subject metadata the file carried.
type Store struct {
	subjects map[string]SubjectDays
	extra    map[string]any
}

// NewStore builds a store directly from per-subject day records.
func NewStore(subjects map[string]SubjectDays) *Store {
	s := &Store{
		subjects: make(map[string]SubjectDays, len(subjects)),
		extra:    make(map[string]any),
	}
	for k, v := range subjects {
		s.subjects[k] = v
	}
	return s
}

// Subjects returns the discovered subject keys sorted lexicographically
// ascending. This order is stable and is the row order used downstream.
func (s *Store) Subjects() []string {
	keys := make([]string, 0, len(s.subjects))
	for k := range s.subjects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Days returns the day records for a subject, or nil if the subject is not
// in the store.
func (s *Store) Days(subject string) SubjectDays {
	return s.subjects[subject]
}

// Day returns one subject's record for one day label.
func (s *Store) Day(subject, day string) (DayRecord, bool) {
	rec, ok := s.subjects[subject][day]
	return rec, ok
}

// Extra returns the non-subject top-level entries of the store.
func (s *Store) Extra() map[string]any {
	return s.extra
}

// NumSubjects returns the number of discovered subjects.
func (s *Store) NumSubjects() int {
	return len(s.subjects)
}
