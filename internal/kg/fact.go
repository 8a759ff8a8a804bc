// Package kg implements the in-process symbolic knowledge graph: an
// append-only fact base holding concept and relation tuples with
// pattern-matched retrieval over them.
package kg

import "strings"

// Concept is a term tagged with a coarse topical context, e.g.
// (concept erc4337 account_abstraction).
type Concept struct {
	Term    string `json:"term"`
	Context string `json:"context"`
}

// Relation is a predicate over two normalized identifiers, e.g.
// (relation enables erc4337 paymaster).
type Relation struct {
	Predicate string `json:"predicate"`
	Subject   string `json:"subject"`
	Object    string `json:"object"`
}

// Normalize lower-cases the identifier and joins whitespace-separated tokens
// with underscores. Applying it twice yields the same result.
func Normalize(s string) string {
	fields := strings.Fields(strings.ToLower(s))
	return strings.Join(fields, "_")
}

func (c Concept) String() string {
	return "(concept " + c.Term + " " + c.Context + ")"
}

func (r Relation) String() string {
	return "(relation " + r.Predicate + " " + r.Subject + " " + r.Object + ")"
}
