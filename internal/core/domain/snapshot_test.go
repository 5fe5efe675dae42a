package domain

import (
	"math"
	"testing"
)

func TestTally_AddAndTotal(t *testing.T) {
	tally := make(Tally)
	tally.Add("Germany", 10.5)
	tally.Add("Germany", 4.5)
	tally.Add("France", 2.0)

	if got := tally["Germany"]; got != 15.0 {
		t.Errorf("Germany = %f, want 15.0", got)
	}
	if got := tally.TotalKm(); math.Abs(got-17.0) > 1e-9 {
		t.Errorf("TotalKm = %f, want 17.0", got)
	}
}

func TestTally_SortedEntries(t *testing.T) {
	tally := Tally{
		"France":  2.0,
		"Germany": 15.0,
		"Spain":   2.0,
		"Italy":   7.0,
	}

	entries := tally.SortedEntries()
	want := []TallyEntry{
		{"Germany", 15.0},
		{"Italy", 7.0},
		{"France", 2.0}, // equal distance: alphabetical
		{"Spain", 2.0},
	}

	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestTally_SortedEntriesEmpty(t *testing.T) {
	if entries := (Tally{}).SortedEntries(); len(entries) != 0 {
		t.Errorf("expected no entries, got %v", entries)
	}
}
