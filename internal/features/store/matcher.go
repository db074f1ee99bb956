package store

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Clause is one disjunct of a StoreFilter: every Require token must appear
// word-boundary-safe in the stored store string, no Exclude token may, and
// when ExactStore is set the stored value must equal it. ExactStore is how
// role scoping pins a disjunct to the caller's own store.
type Clause struct {
	Require    []string
	Exclude    []string
	ExactStore string
}

// StoreFilter is the OR-of-clauses match condition BuildFilter produces. It
// can be evaluated in memory via Matches or realized as a Mongo predicate
// via BSON; both share the same boundary semantics.
type StoreFilter struct {
	Clauses []Clause
}

// BuildFilter expands a raw, human-entered store query into the set of
// acceptable canonical and legacy spellings.
//
// Detection order matters: a query naming both a brand and a location must
// never degrade to a single-dimension match, otherwise "Suitor Guy Edappally"
// would also return the competing brand at the same location.
func BuildFilter(query string) *StoreFilter {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &StoreFilter{}
	}

	brand, location := splitQuery(trimmed)

	switch {
	case brand != "" && location != "":
		return brandLocationFilter(brand, location)
	case location != "":
		return anyVariantFilter(locationVariants[location])
	case brand != "":
		return anyVariantFilter(brandVariants[brand])
	default:
		return &StoreFilter{Clauses: []Clause{{Require: []string{trimmed}}}}
	}
}

// splitQuery resolves the query into canonical (brand, location) parts,
// either of which may come back empty.
func splitQuery(q string) (string, string) {
	if idx := strings.LastIndex(q, "-"); idx >= 0 {
		brand := brandOf(q[:idx])
		location := locationOf(q[idx+1:])
		if brand != "" || location != "" {
			return brand, location
		}
	}

	// No separator: the whole string may be a brand, a location, or a
	// combined "brand location" string.
	if brand := brandOf(q); brand != "" {
		return brand, ""
	}
	if location := locationOf(q); location != "" {
		return "", location
	}

	if brand, remainder := detectBrand(q); brand != "" {
		if location := locationOf(strings.TrimLeft(strings.TrimSpace(remainder), "-.,/ ")); location != "" {
			return brand, location
		}
		return brand, ""
	}

	return "", ""
}

func brandLocationFilter(brand, location string) *StoreFilter {
	f := &StoreFilter{}
	for _, bv := range brandVariants[brand] {
		for _, lv := range locationVariants[location] {
			f.Clauses = append(f.Clauses, Clause{Require: []string{bv, lv}})
		}
	}

	// Legacy records for the default brand often omit the brand marker
	// entirely; accept a bare location as long as the competing brand is
	// not named.
	if brand == DefaultBrand {
		for _, lv := range locationVariants[location] {
			f.Clauses = append(f.Clauses, Clause{
				Require: []string{lv},
				Exclude: brandVariants[BrandZorucci],
			})
		}
	}

	return f
}

func anyVariantFilter(variants []string) *StoreFilter {
	f := &StoreFilter{}
	for _, v := range variants {
		f.Clauses = append(f.Clauses, Clause{Require: []string{v}})
	}
	return f
}

// Matches reports whether a stored store string satisfies the filter. An
// empty filter matches everything.
func (f *StoreFilter) Matches(stored string) bool {
	if f == nil || len(f.Clauses) == 0 {
		return true
	}
	for _, clause := range f.Clauses {
		if clause.matches(stored) {
			return true
		}
	}
	return false
}

func (c Clause) matches(stored string) bool {
	if c.ExactStore != "" && !strings.EqualFold(stored, c.ExactStore) {
		return false
	}
	for _, token := range c.Require {
		if !containsWord(stored, token) {
			return false
		}
	}
	for _, token := range c.Exclude {
		if containsWord(stored, token) {
			return false
		}
	}
	return true
}

// containsWord reports whether token occurs in s bounded on both sides by
// start/end of string, whitespace or a dash. "Edappal" therefore never
// matches inside "Edappally".
func containsWord(s, token string) bool {
	ls := strings.ToLower(s)
	lt := strings.ToLower(strings.TrimSpace(token))
	if lt == "" {
		return false
	}

	for from := 0; ; {
		idx := strings.Index(ls[from:], lt)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(lt)
		if boundary(ls, start-1) && boundary(ls, end) {
			return true
		}
		from = start + 1
	}
}

// boundary reports whether position i in s is outside the string or holds a
// word-boundary character.
func boundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	switch s[i] {
	case ' ', '\t', '-':
		return true
	}
	return false
}

// BSON realizes the filter as a Mongo predicate over the "store" field.
// Returns an empty document for an empty filter.
func (f *StoreFilter) BSON() bson.M {
	if f == nil || len(f.Clauses) == 0 {
		return bson.M{}
	}

	or := make([]bson.M, 0, len(f.Clauses))
	for _, clause := range f.Clauses {
		or = append(or, clause.bson())
	}
	if len(or) == 1 {
		return or[0]
	}
	return bson.M{"$or": or}
}

func (c Clause) bson() bson.M {
	var and []bson.M
	if c.ExactStore != "" {
		and = append(and, bson.M{"store": c.ExactStore})
	}
	for _, token := range c.Require {
		and = append(and, bson.M{"store": wordRegex(token)})
	}
	for _, token := range c.Exclude {
		and = append(and, bson.M{"store": bson.M{"$not": wordRegex(token)}})
	}
	if len(and) == 1 {
		return and[0]
	}
	return bson.M{"$and": and}
}

func wordRegex(token string) primitive.Regex {
	return primitive.Regex{
		Pattern: `(^|[\s-])` + escapeRegex(token) + `([\s-]|$)`,
		Options: "i",
	}
}

// escapeRegex quotes regex metacharacters in a variant string so alias data
// can never change the match semantics.
func escapeRegex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
