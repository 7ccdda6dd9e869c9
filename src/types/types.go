// Package types holds the shapes shared by the client, the chart layer and the dashboard.
package types

import (
	"fmt"
	"strings"
)

// Tab identifies one dashboard panel.
type Tab string

const (
	TabTrends       Tab = "trends"
	TabCooccurrence Tab = "cooccurrence"
	TabPitfalls     Tab = "pitfalls"
	TabSolvability  Tab = "solvability"
)

// AllTabs lists the tabs in display order.
var AllTabs = []Tab{TabTrends, TabCooccurrence, TabPitfalls, TabSolvability}

// Title is the human label used on the tab button.
func (t Tab) Title() string {
	switch t {
	case TabTrends:
		return "Trends"
	case TabCooccurrence:
		return "Co-occurrence"
	case TabPitfalls:
		return "Pitfalls"
	case TabSolvability:
		return "Solvability"
	}
	return string(t)
}

// Valid reports whether t is one of the known tabs.
func (t Tab) Valid() bool {
	for _, k := range AllTabs {
		if k == t {
			return true
		}
	}
	return false
}

// InvalidTabError is returned when a caller names a tab that does not exist.
type InvalidTabError struct {
	ID string
}

func (e *InvalidTabError) Error() string {
	return fmt.Sprintf("invalid tab %q (want one of %s)", e.ID, tabList())
}

func tabList() string {
	names := make([]string, len(AllTabs))
	for i, t := range AllTabs {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseTab validates a tab identifier. Matching is exact: the identifiers are program constants.
func ParseTab(id string) (Tab, error) {
	t := Tab(id)
	if !t.Valid() {
		return "", &InvalidTabError{ID: id}
	}
	return t, nil
}

// SeriesPoint is the common shape every payload is reduced to before rendering.
type SeriesPoint struct {
	Label string
	Value float64
}

// PairCount is one co-occurrence entry, e.g. "java + multithreading" seen 42 times.
type PairCount struct {
	Pair  string
	Count float64
}

// WordWeight is one word-cloud entry.
type WordWeight struct {
	Word   string
	Weight float64
}

// SolvabilityRecord holds one category's solvable vs. hard comparison.
type SolvabilityRecord struct {
	Category string
	Solvable float64
	Hard     float64
}

// Total is the shared denominator for the two pie slices.
func (r SolvabilityRecord) Total() float64 { return r.Solvable + r.Hard }
