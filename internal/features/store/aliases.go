package store

import "strings"

// Brand names as they appear in the canonical "<Brand> - <Location>" form.
const (
	BrandZorucci   = "Zorucci"
	BrandSuitorGuy = "Suitor Guy"
)

// DefaultBrand is the brand legacy records omit: a stored value like plain
// "Edappally" is a Suitor Guy store.
const DefaultBrand = BrandSuitorGuy

// brandVariants maps a canonical brand to every spelling the matcher accepts
// for it. The first entry is the canonical spelling.
var brandVariants = map[string][]string{
	BrandZorucci:   {"Zorucci", "Zurocci", "Zorruci", "Z"},
	BrandSuitorGuy: {"Suitor Guy", "SG", "Suitorguy", "Suiter Guy"},
}

// locationVariants maps a canonical location to the spellings seen in the
// historical data. The first entry is the canonical spelling.
var locationVariants = map[string][]string{
	"Edappally":      {"Edappally", "Edapally", "Edappaly", "Edapaly"},
	"Edappal":        {"Edappal", "Edapal"},
	"Kottakkal":      {"Kottakkal", "Kottakal", "Z.Kottakkal"},
	"Perinthalmanna": {"Perinthalmanna", "Perinthalmana", "Pmna"},
	"Kozhikode":      {"Kozhikode", "Calicut", "Kozhikkode"},
	"Thrissur":       {"Thrissur", "Trichur", "Thrisur"},
	"Palakkad":       {"Palakkad", "Palghat", "Palakad"},
	"Manjeri":        {"Manjeri", "Manjery"},
	"Tirur":          {"Tirur"},
	"Vadakara":       {"Vadakara", "Vatakara"},
	"Taliparamba":    {"Taliparamba", "Thaliparamba"},
	"Kannur":         {"Kannur", "Cannanore"},
	"Kalpetta":       {"Kalpetta", "Kalpata"},
	"Kottayam":       {"Kottayam"},
	"Perumbavoor":    {"Perumbavoor", "Perumbavur"},
	"Alappuzha":      {"Alappuzha", "Alleppey"},
	"Trivandrum":     {"Trivandrum", "Thiruvananthapuram", "Tvm"},
	"Kochi":          {"Kochi", "Ernakulam", "Ekm"},
	"Malappuram":     {"Malappuram", "Malapuram"},
	"Sulthan Bathery": {"Sulthan Bathery", "Sultan Bathery", "Bathery"},
}

// locationFixes corrects misspelled location remainders after the brand token
// has been stripped; keys are lower-cased.
var locationFixes = map[string]string{}

// canonicalTable resolves a lower-cased historical spelling of the full store
// string straight to the canonical form. Built at init from the variant
// tables; the canonical forms themselves are registered so that Normalize is
// idempotent by table lookup alone.
var canonicalTable = map[string]string{}

func init() {
	for loc, variants := range locationVariants {
		canon := loc
		for i, v := range variants {
			if i == 0 {
				continue
			}
			locationFixes[strings.ToLower(v)] = canon
		}
	}

	register := func(raw, canonical string) {
		canonicalTable[strings.ToLower(strings.TrimSpace(raw))] = canonical
	}

	for loc, locVars := range locationVariants {
		zorucci := BrandZorucci + " - " + loc
		suitorGuy := BrandSuitorGuy + " - " + loc

		register(zorucci, zorucci)
		register(suitorGuy, suitorGuy)

		for _, lv := range locVars {
			// historical shorthands: "Z-Edapally", "Z.Edapally", "SG Edapally",
			// "Zorucci Edapally" and dashed combinations
			register("z-"+lv, zorucci)
			register("z."+lv, zorucci)
			register("zorucci "+lv, zorucci)
			register("zorucci - "+lv, zorucci)
			register("zurocci "+lv, zorucci)
			register("sg "+lv, suitorGuy)
			register("sg-"+lv, suitorGuy)
			register("sg - "+lv, suitorGuy)
			register("suitor guy "+lv, suitorGuy)
			register("suitor guy - "+lv, suitorGuy)
			register("suitorguy "+lv, suitorGuy)
		}
	}
}

// brandOf resolves a candidate brand token to its canonical brand, or ""
func brandOf(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	for brand, variants := range brandVariants {
		for _, v := range variants {
			if t == strings.ToLower(v) {
				return brand
			}
		}
	}
	return ""
}

// locationOf resolves a candidate location token to its canonical location, or ""
func locationOf(token string) string {
	t := strings.ToLower(strings.TrimSpace(token))
	for loc, variants := range locationVariants {
		for _, v := range variants {
			if t == strings.ToLower(v) {
				return loc
			}
		}
	}
	return ""
}
