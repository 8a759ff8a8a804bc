package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// EdgeWeightThreshold is the minimum pairwise weight for a sentence-sentence
// edge to be kept.
const EdgeWeightThreshold = 0.3

// Edge type labels.
const (
	EdgeTermMatch    = "term-match"
	EdgeContextMatch = "context-match"
	EdgeBoth         = "both"
)

// EdgeWeight scores the overlap between two captured sentences:
// 0.5 x shared-term ratio + 0.3 context match + 0.2 framework match,
// capped at 1.
func EdgeWeight(a, b store.CapturedSentence) (float64, string) {
	termsA := make(map[string]bool, len(a.Terms))
	for _, t := range a.Terms {
		termsA[strings.ToLower(t)] = true
	}
	termsB := make(map[string]bool, len(b.Terms))
	for _, t := range b.Terms {
		termsB[strings.ToLower(t)] = true
	}

	shared := 0
	union := len(termsB)
	for t := range termsA {
		if termsB[t] {
			shared++
		} else {
			union++
		}
	}

	termScore := 0.0
	if union > 0 {
		termScore = float64(shared) / float64(union) * 0.5
	}

	contextMatch := 0.0
	if a.Context == b.Context {
		contextMatch = 0.3
	}
	frameworkMatch := 0.0
	if a.Framework != "" && a.Framework == b.Framework {
		frameworkMatch = 0.2
	}

	weight := termScore + contextMatch + frameworkMatch
	if weight > 1 {
		weight = 1
	}

	var edgeType string
	switch {
	case shared > 0 && (contextMatch > 0 || frameworkMatch > 0):
		edgeType = EdgeBoth
	case shared > 0:
		edgeType = EdgeTermMatch
	default:
		edgeType = EdgeContextMatch
	}
	return weight, edgeType
}

// BuildUserGraph recomputes a user's graph from captured sentences: one node
// per sentence, one topic node per context cluster with weight-1 edges to its
// members, and pairwise sentence edges above the weight threshold.
func BuildUserGraph(userID string, sentences []store.CapturedSentence) ([]store.GraphNode, []store.GraphEdge) {
	if len(sentences) == 0 {
		return nil, nil
	}

	now := time.Now().UTC().Format(time.RFC3339)

	nodes := make([]store.GraphNode, 0, len(sentences))
	edges := []store.GraphEdge{}

	// topic clusters in first-seen order
	clusterOrder := []string{}
	clusters := map[string][]string{}
	for _, s := range sentences {
		topic := s.Context
		if topic == "" {
			topic = "General"
		}
		if _, ok := clusters[topic]; !ok {
			clusterOrder = append(clusterOrder, topic)
		}
		clusters[topic] = append(clusters[topic], s.ID)
	}

	for _, topic := range clusterOrder {
		topicID := topicNodeID(topic)
		nodes = append(nodes, store.GraphNode{
			ID:         topicID,
			UserID:     userID,
			Type:       "topic",
			Label:      topic,
			Timestamp:  now,
			Confidence: 100,
		})
		for _, sentenceID := range clusters[topic] {
			edges = append(edges, store.GraphEdge{
				ID:     fmt.Sprintf("edge-%s-%s", topicID, sentenceID),
				UserID: userID,
				Source: topicID,
				Target: sentenceID,
				Weight: 1,
				Type:   EdgeContextMatch,
			})
		}
	}

	for _, s := range sentences {
		nodes = append(nodes, store.GraphNode{
			ID:         s.ID,
			UserID:     userID,
			Type:       "sentence",
			Label:      s.Sentence,
			Terms:      s.Terms,
			Context:    s.Context,
			Framework:  s.Framework,
			Timestamp:  s.Timestamp,
			Confidence: s.Confidence,
		})
	}

	for i := 0; i < len(sentences); i++ {
		for j := i + 1; j < len(sentences); j++ {
			weight, edgeType := EdgeWeight(sentences[i], sentences[j])
			if weight < EdgeWeightThreshold {
				continue
			}
			edges = append(edges, store.GraphEdge{
				ID:     fmt.Sprintf("edge-%s-%s", sentences[i].ID, sentences[j].ID),
				UserID: userID,
				Source: sentences[i].ID,
				Target: sentences[j].ID,
				Weight: weight,
				Type:   edgeType,
			})
		}
	}

	return nodes, edges
}

func topicNodeID(topic string) string {
	return "topic-" + strings.ReplaceAll(strings.ToLower(topic), " ", "-")
}

// GraphSyncer recomputes and persists user graphs from captured sentences.
type GraphSyncer struct {
	graphStore store.GraphStore
}

func NewGraphSyncer(graphStore store.GraphStore) *GraphSyncer {
	return &GraphSyncer{graphStore: graphStore}
}

// SyncGraph rebuilds the user's graph from their captured sentences and
// upserts the result. It reports how many nodes and edges were written.
func (s *GraphSyncer) SyncGraph(ctx context.Context, userID string) (nodeCount, edgeCount int, err error) {
	if s.graphStore == nil {
		return 0, 0, fmt.Errorf("persistence bridge is not configured")
	}

	sentences, err := s.graphStore.Sentences(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	nodes, edges := BuildUserGraph(userID, sentences)
	if len(nodes) == 0 {
		logx.Debug().Str("user_id", userID).Msg("no captured sentences, nothing to sync")
		return 0, 0, nil
	}

	if err := s.graphStore.SaveGraph(ctx, userID, nodes, edges); err != nil {
		return 0, 0, err
	}
	logx.Info().Str("user_id", userID).Int("nodes", len(nodes)).Int("edges", len(edges)).Msg("graph synced")
	return len(nodes), len(edges), nil
}
