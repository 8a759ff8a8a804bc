package kg

import (
	"strings"
)

// Pattern is a parsed query tuple. Arguments beginning with '$' are
// variables and match any value; anything else must match literally after
// normalization.
type Pattern struct {
	Kind string // "concept" or "relation"
	Args []string
}

// ParseQuery extracts the innermost (concept ...) or (relation ...) tuple
// from a query string such as "(match &self (concept $x account_abstraction) $x)".
// It reports false when no recognizable tuple is present.
func ParseQuery(q string) (Pattern, bool) {
	q = strings.TrimSpace(q)
	for _, kind := range []string{"concept", "relation"} {
		idx := strings.Index(q, "("+kind)
		if idx < 0 {
			continue
		}
		rest := q[idx+1:]
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			continue
		}
		fields := strings.Fields(rest[:end])
		if len(fields) < 2 {
			continue
		}
		return Pattern{Kind: kind, Args: fields[1:]}, true
	}
	return Pattern{}, false
}

// Query evaluates a pattern query against the fact base and returns the
// matches in insertion order. For patterns containing variables the bound
// values are returned; fully-ground patterns echo the matching tuple.
// Unrecognizable queries return no results rather than an error.
func (s *Store) Query(q string) []string {
	p, ok := ParseQuery(q)
	if !ok {
		return nil
	}

	var out []string
	switch p.Kind {
	case "concept":
		if len(p.Args) < 2 {
			return nil
		}
		for _, c := range s.snapshotConcepts() {
			if bound, ok := matchTuple(p.Args, []string{c.Term, c.Context}); ok {
				out = append(out, pickResult(bound, c.String()))
			}
		}
	case "relation":
		if len(p.Args) < 3 {
			return nil
		}
		for _, r := range s.snapshotRelations() {
			if bound, ok := matchTuple(p.Args, []string{r.Predicate, r.Subject, r.Object}); ok {
				out = append(out, pickResult(bound, r.String()))
			}
		}
	}
	return out
}

// matchTuple unifies pattern arguments against fact values. It returns the
// values bound to variables, or ok=false when a literal argument mismatches.
func matchTuple(args, values []string) (bound []string, ok bool) {
	if len(args) != len(values) {
		return nil, false
	}
	for i, a := range args {
		if strings.HasPrefix(a, "$") {
			bound = append(bound, values[i])
			continue
		}
		if Normalize(a) != values[i] {
			return nil, false
		}
	}
	return bound, true
}

func pickResult(bound []string, ground string) string {
	if len(bound) == 0 {
		return ground
	}
	return strings.Join(bound, " ")
}
