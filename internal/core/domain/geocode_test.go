package domain

import "testing"

func TestNormalizeCountry_Aliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"usa", "United States"},
		{"USA", "United States"},
		{"us", "United States"},
		{"United States of America", "United States"},
		{"uk", "United Kingdom"},
		{"Britain", "United Kingdom"},
		{"great britain", "United Kingdom"},
		{"England", "United Kingdom"},
		{"Scotland", "United Kingdom"},
		{"Wales", "United Kingdom"},
		{"Deutschland", "Germany"},
		{"Nederland", "Netherlands"},
		{"Holland", "Netherlands"},
		{"  uk  ", "United Kingdom"}, // whitespace trimmed
		{"France", "France"},         // unknown passes through
		{"", ""},
	}

	for _, c := range cases {
		if got := NormalizeCountry(c.in); got != c.want {
			t.Errorf("NormalizeCountry(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeCountry_Idempotent(t *testing.T) {
	for _, name := range []string{"usa", "Deutschland", "Holland", "Sweden"} {
		once := NormalizeCountry(name)
		twice := NormalizeCountry(once)
		if once != twice {
			t.Errorf("normalization of %q not idempotent: %q -> %q", name, once, twice)
		}
	}
}
