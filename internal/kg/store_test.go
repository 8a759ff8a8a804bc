package kg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(seq func(yield func(string) bool)) []string {
	var out []string
	seq(func(s string) bool {
		out = append(out, s)
		return true
	})
	return out
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "smart_contract", Normalize("Smart Contract"))
	assert.Equal(t, "smart_contract", Normalize("smart_contract"), "normalization is idempotent")
	assert.Equal(t, "flash_loan", Normalize("  Flash   Loan  "))
	assert.Equal(t, "", Normalize("   "))
}

func TestInsertConcept(t *testing.T) {
	s := NewStore()
	s.InsertConcept("Flash Loan", "DeFi")
	s.InsertConcept("", "DeFi") // empty term is a no-op
	s.InsertConcept("paymaster", "")

	terms := collect(s.Concepts(""))
	require.Equal(t, []string{"flash_loan", "paymaster"}, terms)
	assert.Equal(t, 2, s.Size())
}

func TestInsertConceptDuplicatesAllowed(t *testing.T) {
	s := NewStore()
	s.InsertConcept("erc4337", "web3")
	s.InsertConcept("erc4337", "web3")
	assert.Len(t, collect(s.Concepts("")), 2)
}

func TestInsertTripleShortIsNoOp(t *testing.T) {
	s := NewStore()
	s.InsertTriple([]string{"erc4337", "enables"})
	s.InsertTriple(nil)
	assert.Zero(t, s.Size(), "no partial fact is ever stored")

	s.InsertTriple([]string{"ERC 4337", "Enables", "Paymaster"})
	snap := s.Export()
	require.Len(t, snap.Relations, 1)
	assert.Equal(t, Relation{Predicate: "enables", Subject: "erc_4337", Object: "paymaster"}, snap.Relations[0])
}

func TestConceptsContextFilter(t *testing.T) {
	s := NewStore()
	s.InsertConcept("flash loan", "DeFi")
	s.InsertConcept("bored ape", "NFT")
	s.InsertConcept("aave", "DeFi")

	assert.Equal(t, []string{"flash_loan", "aave"}, collect(s.Concepts("DeFi")))
	assert.Equal(t, []string{"bored_ape"}, collect(s.Concepts("nft")))
	assert.Len(t, collect(s.Concepts("")), 3)
}

func TestExportDeterministicOrdering(t *testing.T) {
	s := NewSeededStore()
	s.InsertConcept("flash loan", "defi")

	first := s.Export()
	second := s.Export()
	assert.Equal(t, first.Concepts, second.Concepts)
	assert.Equal(t, first.Relations, second.Relations)
	assert.Equal(t, first.Metadata.TotalConcepts, len(first.Concepts))
	assert.Equal(t, first.Metadata.TotalRelations, len(first.Relations))
}

func TestSeededStoreBootstrap(t *testing.T) {
	s := NewSeededStore()
	assert.Contains(t, collect(s.Concepts("account_abstraction")), "erc4337")
	assert.Equal(t, 4, s.Size())
}

func TestConceptsRestartable(t *testing.T) {
	s := NewSeededStore()
	seq := s.Concepts("")
	assert.Equal(t, collect(seq), collect(seq), "sequence can be ranged twice")
}
