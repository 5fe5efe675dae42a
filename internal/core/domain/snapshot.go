package domain

import "sort"

// UnknownBucket absorbs route distance that never resolved to a country.
const UnknownBucket = "(Unknown)"

// TallyEntry is one label's accumulated distance.
type TallyEntry struct {
	Label string  `json:"label"`
	Km    float64 `json:"km"`
}

// Tally accumulates distance per label (country or city name).
type Tally map[string]float64

// Add accumulates km onto label.
func (t Tally) Add(label string, km float64) {
	t[label] += km
}

// TotalKm sums all accumulated distance.
func (t Tally) TotalKm() float64 {
	var sum float64
	for _, km := range t {
		sum += km
	}
	return sum
}

// SortedEntries returns entries ordered by distance descending, ties
// broken by label so runs over identical input produce identical output.
func (t Tally) SortedEntries() []TallyEntry {
	entries := make([]TallyEntry, 0, len(t))
	for label, km := range t {
		entries = append(entries, TallyEntry{Label: label, Km: km})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Km != entries[j].Km {
			return entries[i].Km > entries[j].Km
		}
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// Snapshot is an immutable point-in-time view of aggregation progress.
// Interim snapshots carry Done=false; exactly one Done=true snapshot
// closes a run. Processed never decreases across a run's snapshots and
// reported distance is never retracted.
type Snapshot struct {
	TotalKm       float64      `json:"total_km"`
	Countries     []TallyEntry `json:"countries"`
	Cities        []TallyEntry `json:"cities"`
	Processed     int          `json:"processed"`
	Total         int          `json:"total"`
	UniqueCoords  int          `json:"unique_coords"`
	GeocodedCount int          `json:"geocoded_count"`
	Done          bool         `json:"done"`
}
