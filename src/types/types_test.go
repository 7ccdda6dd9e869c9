package types

import (
	"errors"
	"testing"
)

func TestParseTab(t *testing.T) {
	for _, id := range []string{"trends", "cooccurrence", "pitfalls", "solvability"} {
		tab, err := ParseTab(id)
		if err != nil {
			t.Fatalf("ParseTab(%q): %v", id, err)
		}
		if string(tab) != id {
			t.Fatalf("ParseTab(%q) = %q", id, tab)
		}
	}
	for _, id := range []string{"", "Trends", "wordcloud", "solvability "} {
		_, err := ParseTab(id)
		var ite *InvalidTabError
		if !errors.As(err, &ite) {
			t.Fatalf("ParseTab(%q) want InvalidTabError got %v", id, err)
		}
		if ite.ID != id {
			t.Fatalf("error carries id %q want %q", ite.ID, id)
		}
	}
}

func TestTabTitlesDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, tab := range AllTabs {
		title := tab.Title()
		if title == "" || seen[title] {
			t.Fatalf("bad or duplicate title %q for %s", title, tab)
		}
		seen[title] = true
	}
}

func TestSolvabilityTotal(t *testing.T) {
	r := SolvabilityRecord{Category: "Trendiness", Solvable: 12.5, Hard: 10}
	if r.Total() != 22.5 {
		t.Fatalf("total %v", r.Total())
	}
}
