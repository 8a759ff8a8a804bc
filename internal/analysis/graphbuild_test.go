package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluent-web3/agent/internal/store"
)

func TestEdgeWeightFormula(t *testing.T) {
	a := store.CapturedSentence{ID: "a", Terms: []string{"paymaster", "bundler"}, Context: "Web3", Framework: "EVM"}
	b := store.CapturedSentence{ID: "b", Terms: []string{"paymaster", "relayer"}, Context: "Web3", Framework: "EVM"}

	// shared 1 of 3 unique terms: 1/3*0.5 + 0.3 + 0.2
	weight, edgeType := EdgeWeight(a, b)
	assert.InDelta(t, 1.0/3.0*0.5+0.3+0.2, weight, 1e-9)
	assert.Equal(t, EdgeBoth, edgeType)
}

func TestEdgeWeightNoOverlap(t *testing.T) {
	a := store.CapturedSentence{ID: "a", Terms: []string{"nft"}, Context: "NFT"}
	b := store.CapturedSentence{ID: "b", Terms: []string{"rollup"}, Context: "Web3"}

	weight, edgeType := EdgeWeight(a, b)
	assert.Zero(t, weight)
	assert.Equal(t, EdgeContextMatch, edgeType)
}

func TestEdgeWeightTermsOnly(t *testing.T) {
	a := store.CapturedSentence{ID: "a", Terms: []string{"dex"}, Context: "DeFi"}
	b := store.CapturedSentence{ID: "b", Terms: []string{"dex"}, Context: "Web3"}

	weight, edgeType := EdgeWeight(a, b)
	assert.InDelta(t, 0.5, weight, 1e-9)
	assert.Equal(t, EdgeTermMatch, edgeType)
}

func TestBuildUserGraph(t *testing.T) {
	sentences := []store.CapturedSentence{
		{ID: "s1", Sentence: "Uniswap is an AMM", Terms: []string{"uniswap", "amm"}, Context: "DeFi", Timestamp: "t1"},
		{ID: "s2", Sentence: "AMMs use liquidity pools", Terms: []string{"amm", "liquidity pool"}, Context: "DeFi", Timestamp: "t2"},
		{ID: "s3", Sentence: "I minted an NFT", Terms: []string{"nft"}, Context: "NFT", Timestamp: "t3"},
	}

	nodes, edges := BuildUserGraph("user-1", sentences)

	// 2 topic nodes + 3 sentence nodes
	require.Len(t, nodes, 5)
	assert.Equal(t, "topic-defi", nodes[0].ID)
	assert.Equal(t, "topic", nodes[0].Type)
	assert.Equal(t, "topic-nft", nodes[1].ID)

	// every topic edge has weight 1
	topicEdges := 0
	for _, e := range edges {
		if e.Source == "topic-defi" || e.Source == "topic-nft" {
			topicEdges++
			assert.Equal(t, 1.0, e.Weight)
		}
	}
	assert.Equal(t, 3, topicEdges)

	// s1-s2 share a term and a context, above threshold; s3 pairs fall below
	var s1s2 *store.GraphEdge
	for i := range edges {
		if strings.HasPrefix(edges[i].Source, "topic-") {
			continue
		}
		if edges[i].Source == "s1" && edges[i].Target == "s2" {
			s1s2 = &edges[i]
			continue
		}
		t.Errorf("unexpected sentence edge %s -> %s", edges[i].Source, edges[i].Target)
	}
	require.NotNil(t, s1s2)
	assert.InDelta(t, 1.0/3.0*0.5+0.3, s1s2.Weight, 1e-9)
}

func TestBuildUserGraphEmpty(t *testing.T) {
	nodes, edges := BuildUserGraph("user-1", nil)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}
