package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iafilius/StackflowDashboard/src/types"
)

// TrendSeries turns {"2024-01": 5, "2023-12": 2} into points ordered by month key.
// Keys are zero-padded ISO months, so a lexicographic sort is chronological.
func TrendSeries(raw json.RawMessage) ([]types.SeriesPoint, error) {
	members, err := decodeObject("trend", raw)
	if err != nil {
		return nil, err
	}
	out := make([]types.SeriesPoint, 0, len(members))
	for _, m := range members {
		v, err := decodeNumber("trend", m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, types.SeriesPoint{Label: m.Key, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

// PairSeries reads the top-N list, where every element is a single-entry object {"a + b": 12}.
// Backend order (descending frequency) is kept.
func PairSeries(raw json.RawMessage) ([]types.PairCount, error) {
	items, err := decodeArray("topNpairs", raw)
	if err != nil {
		return nil, err
	}
	out := make([]types.PairCount, 0, len(items))
	for i, it := range items {
		members, err := decodeObject("topNpairs", it)
		if err != nil {
			return nil, err
		}
		if len(members) != 1 {
			return nil, &ShapeError{Endpoint: "topNpairs", Detail: fmt.Sprintf("entry %d has %d keys, want 1", i, len(members))}
		}
		v, err := decodeNumber("topNpairs", members[0].Key, members[0].Value)
		if err != nil {
			return nil, err
		}
		out = append(out, types.PairCount{Pair: members[0].Key, Count: v})
	}
	return out, nil
}

// WordWeights reads word→weight in payload order; no sorting.
func WordWeights(raw json.RawMessage) ([]types.WordWeight, error) {
	members, err := decodeObject("wordcloud", raw)
	if err != nil {
		return nil, err
	}
	out := make([]types.WordWeight, 0, len(members))
	for _, m := range members {
		v, err := decodeNumber("wordcloud", m.Key, m.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, types.WordWeight{Word: m.Key, Weight: v})
	}
	return out, nil
}

// WordDisplaySize maps a raw weight to a font scale for the cloud. Display only; never stored.
func WordDisplaySize(weight float64) float64 {
	if weight <= 0 {
		return 0
	}
	return math.Pow(weight, 0.8) * 2
}

// MalformedSolvabilityRecord reports a category value that is not "<solvable>_<hard>".
type MalformedSolvabilityRecord struct {
	Category string
	Raw      string
	Reason   string
}

func (e *MalformedSolvabilityRecord) Error() string {
	return fmt.Sprintf("malformed solvability record %q=%q: %s", e.Category, e.Raw, e.Reason)
}

// ParseSolvability splits "12.5_10.0" into its two halves. Exactly two finite numbers are required;
// negative values (average answer scores) are kept.
func ParseSolvability(category, value string) (types.SolvabilityRecord, error) {
	parts := strings.Split(value, "_")
	if len(parts) != 2 {
		return types.SolvabilityRecord{}, &MalformedSolvabilityRecord{Category: category, Raw: value, Reason: fmt.Sprintf("want 2 tokens, got %d", len(parts))}
	}
	var nums [2]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return types.SolvabilityRecord{}, &MalformedSolvabilityRecord{Category: category, Raw: value, Reason: fmt.Sprintf("token %q is not a number", p)}
		}
		nums[i] = f
	}
	return types.SolvabilityRecord{Category: category, Solvable: nums[0], Hard: nums[1]}, nil
}

// SolvabilityRecords parses the whole /solvability payload, keeping category order.
func SolvabilityRecords(raw json.RawMessage) ([]types.SolvabilityRecord, error) {
	members, err := decodeObject("solvability", raw)
	if err != nil {
		return nil, err
	}
	out := make([]types.SolvabilityRecord, 0, len(members))
	for _, m := range members {
		var s string
		if err := json.Unmarshal(m.Value, &s); err != nil {
			return nil, &MalformedSolvabilityRecord{Category: m.Key, Raw: strings.TrimSpace(string(m.Value)), Reason: "value is not a string"}
		}
		rec, err := ParseSolvability(m.Key, s)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// SolvabilityTooltip describes both slices relative to their shared total, whichever one is hovered.
func SolvabilityTooltip(solvable, hard float64) []string {
	total := solvable + hard
	return []string{
		fmt.Sprintf("Solvable: %s (%s)", formatValue(solvable), percentOf(solvable, total)),
		fmt.Sprintf("Hard: %s (%s)", formatValue(hard), percentOf(hard, total)),
	}
}

func percentOf(v, total float64) string {
	if total <= 0 {
		return "0.0%"
	}
	return strconv.FormatFloat(v/total*100, 'f', 1, 64) + "%"
}

func formatValue(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
