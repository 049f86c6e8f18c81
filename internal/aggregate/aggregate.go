// Package aggregate groups table rows by a categorical key and computes
// per-group counts and descriptive statistics over non-missing values.
package aggregate

import (
	"math"
	"sort"

	"harestats/domain/core"
	domstats "harestats/domain/stats"
	"harestats/domain/table"

	"github.com/montanaflynn/stats"
)

// Counts maps each key value actually present to its row count. Keys that
// never occur are never invented; a gap in a naturally ordered key space
// (a year with no captures) is visible to the caller as an absent key.
type Counts struct {
	ByKey   map[string]int `json:"by_key"`
	Skipped int            `json:"skipped"` // rows whose key cell is missing
}

// Keys returns the present keys in lexical order.
func (c Counts) Keys() []string {
	keys := make([]string, 0, len(c.ByKey))
	for k := range c.ByKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total returns the number of counted rows (table length minus skipped).
func (c Counts) Total() int {
	total := 0
	for _, n := range c.ByKey {
		total += n
	}
	return total
}

// GroupCount tallies rows per distinct key value. Rows with a missing key
// are not counted under any key; they are reported via Skipped so the
// counted total still reconciles against the table length.
func GroupCount(t table.Table, keyField core.FieldName) (Counts, error) {
	col, err := t.Column(keyField)
	if err != nil {
		return Counts{}, err
	}

	counts := Counts{ByKey: make(map[string]int)}
	for _, v := range col {
		key, ok := groupKey(v)
		if !ok {
			counts.Skipped++
			continue
		}
		counts.ByKey[key]++
	}
	return counts, nil
}

// SummaryStats computes one GroupSummary per distinct key over the
// non-missing values of valueField within that group. A group whose
// values are all missing yields an explicit undefined summary; a group
// with a single value has a defined mean but an undefined standard
// deviation, never a fabricated zero. Summaries are ordered by key.
func SummaryStats(t table.Table, keyField, valueField core.FieldName) ([]domstats.GroupSummary, error) {
	keyCol, err := t.Column(keyField)
	if err != nil {
		return nil, err
	}
	valCol, err := t.Column(valueField)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]float64)
	for i, kv := range keyCol {
		key, ok := groupKey(kv)
		if !ok {
			continue
		}
		if _, seen := groups[key]; !seen {
			groups[key] = nil // a present key with zero usable values still appears
		}
		if x, ok := valCol[i].Numeric(); ok {
			groups[key] = append(groups[key], x)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domstats.GroupSummary, 0, len(keys))
	for _, k := range keys {
		out = append(out, summarize(k, groups[k]))
	}
	return out, nil
}

func summarize(key string, xs []float64) domstats.GroupSummary {
	if len(xs) == 0 {
		return domstats.Undefined(key)
	}

	mean, _ := stats.Mean(xs)
	median, _ := stats.Median(xs)
	min, _ := stats.Min(xs)
	max, _ := stats.Max(xs)

	s := domstats.GroupSummary{
		Key:     key,
		N:       len(xs),
		Mean:    mean,
		Median:  median,
		StdDev:  math.NaN(),
		Min:     min,
		Max:     max,
		Defined: true,
	}
	if len(xs) >= 2 {
		sd, _ := stats.StandardDeviationSample(xs)
		s.StdDev = sd
		s.StdDevDefined = true
	}
	return s
}

// groupKey renders a cell as a grouping key. Numeric keys like years
// format without a decimal part so 1999.0 groups as "1999".
func groupKey(v table.Value) (string, bool) {
	if v.IsMissing {
		return "", false
	}
	return v.String(), true
}
