package store

import "strings"

// Normalize canonicalizes a raw upstream store string into the fixed
// "<Brand> - <Location>" form. Unknown formats are returned unchanged so bad
// upstream data stays visible instead of being guessed away. Normalize is
// idempotent: canonical forms resolve to themselves through the exact table.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	if canonical, ok := canonicalTable[strings.ToLower(trimmed)]; ok {
		return canonical
	}

	brand, remainder := detectBrand(trimmed)
	if brand == "" {
		return trimmed
	}

	location := cleanLocation(remainder)
	if location == "" {
		return trimmed
	}

	return brand + " - " + location
}

// detectBrand finds the brand marker in a raw store string and returns the
// canonical brand plus the string with the marker removed.
func detectBrand(s string) (string, string) {
	lower := strings.ToLower(s)

	switch {
	case strings.HasPrefix(lower, "z-"), strings.HasPrefix(lower, "z."):
		return BrandZorucci, s[2:]
	case strings.Contains(lower, "zorucci"):
		return BrandZorucci, cutToken(s, lower, "zorucci")
	case strings.Contains(lower, "zurocci"):
		return BrandZorucci, cutToken(s, lower, "zurocci")
	case strings.Contains(lower, "suitor guy"):
		return BrandSuitorGuy, cutToken(s, lower, "suitor guy")
	case strings.Contains(lower, "suitorguy"):
		return BrandSuitorGuy, cutToken(s, lower, "suitorguy")
	case strings.HasPrefix(lower, "sg-"), strings.HasPrefix(lower, "sg."):
		return BrandSuitorGuy, s[3:]
	case strings.HasPrefix(lower, "sg "):
		return BrandSuitorGuy, s[3:]
	}

	return "", s
}

// cutToken removes the first occurrence of token (matched case-insensitively
// via the pre-lowered copy) from s.
func cutToken(s, lower, token string) string {
	idx := strings.Index(lower, token)
	if idx < 0 {
		return s
	}
	return s[:idx] + s[idx+len(token):]
}

// cleanLocation strips leading separator punctuation, title-cases the
// remainder and applies the location spelling corrections.
func cleanLocation(s string) string {
	s = strings.TrimLeft(strings.TrimSpace(s), "-.,/ ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if fixed, ok := locationFixes[strings.ToLower(s)]; ok {
		return fixed
	}
	if canonical := locationOf(s); canonical != "" {
		return canonical
	}

	return titleCase(s)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
