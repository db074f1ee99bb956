package store

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Empty", "", ""},
		{"Canonical Passthrough", "Zorucci - Edappally", "Zorucci - Edappally"},
		{"Z Dash Shorthand", "Z-Edapally", "Zorucci - Edappally"},
		{"Z Dot Shorthand", "z.kottakal", "Zorucci - Kottakkal"},
		{"Zurocci Misspelling", "Zurocci Edappal", "Zorucci - Edappal"},
		{"SG Shorthand", "SG Perinthalmana", "Suitor Guy - Perinthalmanna"},
		{"SG Dash", "sg-pmna", "Suitor Guy - Perinthalmanna"},
		{"Suitor Guy Full", "suitor guy kottakkal", "Suitor Guy - Kottakkal"},
		{"Unknown Location Title Cased", "Z-new town", "Zorucci - New Town"},
		{"No Brand Is Untouched", "Edappally", "Edappally"},
		{"Garbage Is Untouched", "random text", "random text"},
		{"Whitespace Trimmed", "  Zorucci - Edappally  ", "Zorucci - Edappally"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Z-Edapally",
		"z.kottakal",
		"SG Perinthalmana",
		"suitor guy kottakkal",
		"Zorucci - Edappally",
		"Z-new town",
		"Edappally",
		"random text",
		"",
	}

	// every known historical spelling must also be a fixed point after one pass
	for raw := range canonicalTable {
		inputs = append(inputs, raw)
	}

	for _, raw := range inputs {
		once := Normalize(raw)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", raw, once, twice)
		}
	}
}
