package domain

import "strings"

// UnknownLabel marks coordinates no country bounding box covers.
const UnknownLabel = "Unknown"

// GeocodeResult is an offline reverse-geocode answer. Confidence is a
// [0,1] score reflecting how close the point sits to a known city marker.
type GeocodeResult struct {
	Country    string  `json:"country"`
	City       string  `json:"city"`
	Confidence float64 `json:"confidence"`
}

// countryAliases folds common variants onto one canonical country name.
// Keys are lower-case.
var countryAliases = map[string]string{
	"usa":                      "United States",
	"us":                       "United States",
	"united states of america": "United States",
	"uk":                       "United Kingdom",
	"britain":                  "United Kingdom",
	"great britain":            "United Kingdom",
	"england":                  "United Kingdom",
	"scotland":                 "United Kingdom",
	"wales":                    "United Kingdom",
	"deutschland":              "Germany",
	"nederland":                "Netherlands",
	"holland":                  "Netherlands",
}

// NormalizeCountry maps aliases like "USA" or "Deutschland" onto the
// canonical country name. Unrecognized names pass through unchanged, so
// normalizing an already-normalized name is a no-op.
func NormalizeCountry(name string) string {
	if canonical, ok := countryAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical
	}
	return name
}
