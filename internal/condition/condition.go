// Package condition infers the experimental condition of a day record from
// its free-text indicator fields.
package condition

import (
	"strings"

	"cagestat/internal/records"
)

// Condition is the experimental context of one observation day.
type Condition int

const (
	// Unknown means the record carried no recognizable condition text.
	// Unknown days are excluded from aggregation entirely.
	Unknown Condition = iota
	// Solo means the subject was housed alone for the session.
	Solo
	// Cagemate means the subject was paired with another animal.
	Cagemate
)

// String returns the display name of the condition.
func (c Condition) String() string {
	switch c {
	case Solo:
		return "Solo"
	case Cagemate:
		return "Cagemate"
	default:
		return "Unknown"
	}
}

// Substrings that identify each condition. Cagemate markers are checked
// before Solo markers at every stage, so text matching both classifies as
// Cagemate.
var (
	cagemateMarkers = []string{"cage", "mate", "pair"}
	soloMarkers     = []string{"solo", "alone"}
)

// Classify infers the condition of a day record. The primary field is
// tested alone first; only when it yields no match is the concatenation of
// primary and secondary fields tested with the same rules. A record that
// did not decode as a structured object is always Unknown.
//
// The fallback order is deliberate: a primary field with irrelevant text
// (e.g. "baseline") still lets a secondary field decide. Existing datasets
// rely on this, so do not reorder the checks.
func Classify(rec records.DayRecord) Condition {
	if !rec.WellFormed() {
		return Unknown
	}
	if c := matchMarkers(rec.Condition); c != Unknown {
		return c
	}
	return matchMarkers(rec.Condition + rec.Note)
}

func matchMarkers(text string) Condition {
	lowered := strings.ToLower(text)
	for _, marker := range cagemateMarkers {
		if strings.Contains(lowered, marker) {
			return Cagemate
		}
	}
	for _, marker := range soloMarkers {
		if strings.Contains(lowered, marker) {
			return Solo
		}
	}
	return Unknown
}
