// Package intervals resolves behavior fields inside an interval container
// by case-insensitive alias lookup and derives the per-day scalar metrics.
package intervals

import (
	"math"
	"strings"

	"cagestat/internal/records"
)

// Alias tables checked in priority order. Only the first matching alias is
// consulted; intervals are never merged across aliases.
var (
	FreezeAliases = []string{"freezing", "freeze"}
	SwayAliases   = []string{"sway", "head_sway", "vigilance"}
)

// Extract scans a container for the first alias (in list order, not
// container order) whose key matches case-insensitively and whose value
// was actually scored. It returns the matched intervals and the alias that
// matched. ok is false when no alias resolved, which callers must treat as
// "no data" rather than zero events.
func Extract(set records.IntervalSet, aliases []string) (ivs []records.Interval, alias string, ok bool) {
	if len(set) == 0 {
		return nil, "", false
	}

	// Case-normalized key set, built once per container. When two keys
	// collide under normalization the lexicographically smaller original
	// key wins, keeping lookup deterministic.
	normalized := make(map[string]string, len(set))
	for key := range set {
		lower := strings.ToLower(key)
		if existing, seen := normalized[lower]; !seen || key < existing {
			normalized[lower] = key
		}
	}

	for _, a := range aliases {
		key, present := normalized[strings.ToLower(a)]
		if !present {
			continue
		}
		if v := set[key]; v != nil {
			return v, a, true
		}
	}
	return nil, "", false
}

// Measure computes the per-day event count and total duration for a
// behavior. Both are NaN when no alias resolves: a day with no data is
// distinct from a day with zero events. Negative interval spans are
// clamped to zero.
func Measure(set records.IntervalSet, aliases []string) (count, duration float64) {
	ivs, _, ok := Extract(set, aliases)
	if !ok {
		return math.NaN(), math.NaN()
	}

	var total float64
	for _, iv := range ivs {
		total += math.Max(0, iv.End-iv.Start)
	}
	return float64(len(ivs)), total
}
