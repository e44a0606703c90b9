package markov

import (
	"sort"
	"strings"
)

// QueryChange classifies how a query differs from the one before it.
type QueryChange string

const (
	Addition   QueryChange = "Addition"
	Removal    QueryChange = "Removal"
	Change     QueryChange = "Change"
	Repetition QueryChange = "Repetition"
	Others     QueryChange = "Others"
)

// QueryChanges lists every class.
var QueryChanges = []QueryChange{Addition, Removal, Change, Repetition, Others}

// ParseQueryChange matches a class name case-insensitively.
func ParseQueryChange(name string) (QueryChange, bool) {
	for _, c := range QueryChanges {
		if strings.EqualFold(name, string(c)) {
			return c, true
		}
	}
	return "", false
}

// ClassifyQueryChange compares the term sets of two consecutive queries.
// Only added terms is an Addition, only removed terms a Removal; both with
// shared terms is a Change and both without any shared term is Others.
// Identical term sets are a Repetition.
func ClassifyQueryChange(prev, cur string) QueryChange {
	p := terms(prev)
	c := terms(cur)

	added := difference(c, p)
	removed := difference(p, c)
	switch {
	case added > 0 && removed == 0:
		return Addition
	case removed > 0 && added == 0:
		return Removal
	case added > 0 && removed > 0:
		if len(ThemeTerms(prev, cur)) > 0 {
			return Change
		}
		return Others
	default:
		return Repetition
	}
}

// ThemeTerms returns the terms shared by both queries, sorted.
func ThemeTerms(prev, cur string) []string {
	p := terms(prev)
	var out []string
	for t := range terms(cur) {
		if _, ok := p[t]; ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func terms(q string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(q) {
		out[t] = struct{}{}
	}
	return out
}

func difference(a, b map[string]struct{}) int {
	n := 0
	for t := range a {
		if _, ok := b[t]; !ok {
			n++
		}
	}
	return n
}
