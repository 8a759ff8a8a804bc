// Package store is the persistence bridge for per-user learning data:
// captured sentences, the derived knowledge graph, and gap insights. The
// rest of the service treats it as optional; a nil GraphStore means the
// features that need it degrade instead of failing.
package store

import "context"

// CapturedSentence is one sentence a user saved, with its extraction result.
type CapturedSentence struct {
	ID               string   `json:"id"`
	UserID           string   `json:"user_id"`
	Sentence         string   `json:"sentence"`
	Terms            []string `json:"terms"`
	Context          string   `json:"context"`
	Framework        string   `json:"framework,omitempty"`
	SecondaryContext string   `json:"secondary_context,omitempty"`
	Confidence       float64  `json:"confidence"`
	Timestamp        string   `json:"timestamp"`
	SyncedAt         string   `json:"synced_at,omitempty"`
}

// GraphNode is a persisted node of a user's knowledge graph. Type is either
// "topic" or "sentence".
type GraphNode struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	Type       string   `json:"type"`
	Label      string   `json:"label"`
	Terms      []string `json:"terms,omitempty"`
	Context    string   `json:"context,omitempty"`
	Framework  string   `json:"framework,omitempty"`
	Timestamp  string   `json:"timestamp"`
	Confidence float64  `json:"confidence"`
}

// GraphEdge links two graph nodes with an overlap weight in [0, 1]. Type is
// "term-match", "context-match", or "both".
type GraphEdge struct {
	ID     string  `json:"id"`
	UserID string  `json:"user_id"`
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
	Type   string  `json:"type"`
}

// UserGraph is a user's full persisted graph.
type UserGraph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// Insight is a persisted gap-detection record.
type Insight struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Cluster         string   `json:"cluster"`
	MissingConcepts []string `json:"missing_concepts"`
	Confidence      float64  `json:"confidence"`
	CreatedAt       string   `json:"created_at"`
}

// GraphStore persists user learning data. Implementations must be safe for
// concurrent use.
type GraphStore interface {
	// SaveSentence upserts a captured sentence keyed by its id.
	SaveSentence(ctx context.Context, s CapturedSentence) error

	// Sentences returns every captured sentence for a user.
	Sentences(ctx context.Context, userID string) ([]CapturedSentence, error)

	// SentencesByCluster returns a user's sentences for one context label.
	SentencesByCluster(ctx context.Context, userID, context string) ([]CapturedSentence, error)

	// UserGraph loads a user's persisted nodes and edges.
	UserGraph(ctx context.Context, userID string) (*UserGraph, error)

	// SaveGraph upserts a recomputed set of nodes and edges for a user.
	SaveGraph(ctx context.Context, userID string, nodes []GraphNode, edges []GraphEdge) error

	// SaveInsight records one gap-detection insight.
	SaveInsight(ctx context.Context, ins Insight) error
}
