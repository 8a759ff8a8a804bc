package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	p, ok := ParseQuery("(match &self (concept $x account_abstraction) $x)")
	require.True(t, ok)
	assert.Equal(t, "concept", p.Kind)
	assert.Equal(t, []string{"$x", "account_abstraction"}, p.Args)

	p, ok = ParseQuery("(relation $p erc4337 $o)")
	require.True(t, ok)
	assert.Equal(t, "relation", p.Kind)

	_, ok = ParseQuery("what is a flash loan")
	assert.False(t, ok)
}

func TestQueryConceptsByContext(t *testing.T) {
	s := NewSeededStore()
	got := s.Query("(match &self (concept $x account_abstraction) $x)")
	assert.Equal(t, []string{"erc4337"}, got)
}

func TestQueryAllConcepts(t *testing.T) {
	s := NewSeededStore()
	got := s.Query("(match &self (concept $x $ctx) $x)")
	// two variables bind to "term context" pairs in insertion order
	assert.Equal(t, []string{"erc4337 account_abstraction", "relayer bundler"}, got)
}

func TestQueryGroundTupleEchoes(t *testing.T) {
	s := NewSeededStore()
	got := s.Query("(concept erc4337 account_abstraction)")
	require.Len(t, got, 1)
	assert.Equal(t, "(concept erc4337 account_abstraction)", got[0])
}

func TestQueryRelations(t *testing.T) {
	s := NewSeededStore()
	got := s.Query("(relation enables $s $o)")
	assert.Equal(t, []string{"erc4337 paymaster"}, got)
}

func TestQueryNoMatch(t *testing.T) {
	s := NewSeededStore()
	assert.Empty(t, s.Query("(concept $x no_such_context)"))
	assert.Empty(t, s.Query("gibberish"))
}
