package records

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Recognized day-record field names. Anything else lands in Extra.
const (
	conditionKey = "condition"
	noteKey      = "note"
	behaviorsKey = "behaviors"
	intervalsKey = "intervals"
)

// Load reads a record store from a YAML or JSON file, chosen by extension.
func Load(path string, rule SubjectRule) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record store: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data, rule)
	default:
		return LoadYAML(data, rule)
	}
}

// LoadYAML decodes a YAML record store.
func LoadYAML(data []byte, rule SubjectRule) (*Store, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode yaml record store: %w", err)
	}
	return FromRaw(raw, rule), nil
}

// LoadJSON decodes a JSON record store.
func LoadJSON(data []byte, rule SubjectRule) (*Store, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json record store: %w", err)
	}
	return FromRaw(raw, rule), nil
}

// FromRaw shapes an untyped store into typed records. Top-level keys
// matching the rule become subjects; everything else is kept as metadata.
// A nil rule falls back to DefaultSubjectRule. Malformed entries are never
// fatal: a subject whose value is not a mapping simply has no days, and a
// day whose value is not a mapping decodes as a record that is not well
// formed.
func FromRaw(raw map[string]any, rule SubjectRule) *Store {
	if rule == nil {
		rule = DefaultSubjectRule
	}

	store := &Store{
		subjects: make(map[string]SubjectDays),
		extra:    make(map[string]any),
	}

	for key, value := range raw {
		if !rule(key) {
			store.extra[key] = value
			continue
		}

		days := make(SubjectDays)
		if dayMap, ok := asStringMap(value); ok {
			for label, dayValue := range dayMap {
				days[label] = decodeDay(dayValue)
			}
		}
		store.subjects[key] = days
	}

	return store
}

// decodeDay shapes one day's raw value into a DayRecord. Non-mapping
// values produce a record that is not well formed, which downstream
// classification resolves to Unknown.
func decodeDay(value any) DayRecord {
	dayMap, ok := asStringMap(value)
	if !ok {
		return DayRecord{}
	}

	rec := DayRecord{wellFormed: true}
	for k, v := range dayMap {
		switch strings.ToLower(k) {
		case conditionKey:
			rec.Condition, _ = v.(string)
		case noteKey:
			rec.Note, _ = v.(string)
		case behaviorsKey:
			rec.Behaviors = decodeIntervalSet(v)
		case intervalsKey:
			rec.Intervals = decodeIntervalSet(v)
		default:
			if rec.Extra == nil {
				rec.Extra = make(map[string]any)
			}
			rec.Extra[k] = v
		}
	}
	return rec
}

// decodeIntervalSet shapes a raw interval container. A behavior key whose
// value is null (or unparseable) maps to a nil slice, which downstream
// extraction treats as "no data" rather than zero events.
func decodeIntervalSet(value any) IntervalSet {
	container, ok := asStringMap(value)
	if !ok {
		return nil
	}

	set := make(IntervalSet, len(container))
	for name, rawList := range container {
		set[name] = decodeIntervals(rawList)
	}
	return set
}

func decodeIntervals(value any) []Interval {
	list, ok := value.([]any)
	if !ok {
		return nil
	}

	out := make([]Interval, 0, len(list))
	for _, entry := range list {
		if iv, ok := decodeInterval(entry); ok {
			out = append(out, iv)
		}
	}
	return out
}

// decodeInterval accepts either a two-element [start, end] sequence or a
// {start, end} mapping.
func decodeInterval(entry any) (Interval, bool) {
	switch v := entry.(type) {
	case []any:
		if len(v) != 2 {
			return Interval{}, false
		}
		start, ok1 := asFloat(v[0])
		end, ok2 := asFloat(v[1])
		if !ok1 || !ok2 {
			return Interval{}, false
		}
		return Interval{Start: start, End: end}, true
	case map[string]any:
		start, ok1 := asFloat(v["start"])
		end, ok2 := asFloat(v["end"])
		if !ok1 || !ok2 {
			return Interval{}, false
		}
		return Interval{Start: start, End: end}, true
	}
	return Interval{}, false
}

// asStringMap normalizes the mapping shapes the YAML and JSON decoders
// produce for untyped input.
func asStringMap(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			key, ok := k.(string)
			if !ok {
				continue
			}
			out[key] = v
		}
		return out, true
	}
	return nil, false
}

func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
