package store

import (
	"context"
	"fmt"
	"time"

	"github.com/supabase-community/supabase-go"

	errx "github.com/fluent-web3/agent/internal/core/error"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

const (
	tableSentences = "captured_sentences"
	tableNodes     = "graph_nodes"
	tableEdges     = "graph_edges"
	tableInsights  = "insights"
)

// SupabaseStore implements GraphStore over the Supabase postgrest API with
// the service role key, so row level security does not apply.
//
// The postgrest client carries its own HTTP plumbing and does not accept a
// context on execution; the ctx parameters are kept for interface symmetry.
type SupabaseStore struct {
	client *supabase.Client
}

func NewSupabaseStore(url, serviceRoleKey string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(url, serviceRoleKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return &SupabaseStore{client: client}, nil
}

func (s *SupabaseStore) SaveSentence(ctx context.Context, sentence CapturedSentence) error {
	if sentence.SyncedAt == "" {
		sentence.SyncedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, _, err := s.client.From(tableSentences).
		Insert(sentence, true, "id", "", "").
		Execute()
	if err != nil {
		logx.Error().Err(err).Str("sentence_id", sentence.ID).Msg("failed to upsert captured sentence")
		return errx.WrapStore(err)
	}
	return nil
}

func (s *SupabaseStore) Sentences(ctx context.Context, userID string) ([]CapturedSentence, error) {
	var out []CapturedSentence
	_, err := s.client.From(tableSentences).
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&out)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to load captured sentences")
		return nil, errx.WrapStore(err)
	}
	return out, nil
}

func (s *SupabaseStore) SentencesByCluster(ctx context.Context, userID, context string) ([]CapturedSentence, error) {
	var out []CapturedSentence
	_, err := s.client.From(tableSentences).
		Select("*", "", false).
		Eq("user_id", userID).
		Eq("context", context).
		ExecuteTo(&out)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Str("context", context).Msg("failed to load cluster sentences")
		return nil, errx.WrapStore(err)
	}
	return out, nil
}

func (s *SupabaseStore) UserGraph(ctx context.Context, userID string) (*UserGraph, error) {
	var nodes []GraphNode
	if _, err := s.client.From(tableNodes).
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&nodes); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to load graph nodes")
		return nil, errx.WrapStore(err)
	}

	var edges []GraphEdge
	if _, err := s.client.From(tableEdges).
		Select("*", "", false).
		Eq("user_id", userID).
		ExecuteTo(&edges); err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to load graph edges")
		return nil, errx.WrapStore(err)
	}

	return &UserGraph{Nodes: nodes, Edges: edges}, nil
}

func (s *SupabaseStore) SaveGraph(ctx context.Context, userID string, nodes []GraphNode, edges []GraphEdge) error {
	if len(nodes) > 0 {
		if _, _, err := s.client.From(tableNodes).
			Insert(nodes, true, "id", "", "").
			Execute(); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Int("nodes", len(nodes)).Msg("failed to upsert graph nodes")
			return errx.WrapStore(err)
		}
	}
	if len(edges) > 0 {
		if _, _, err := s.client.From(tableEdges).
			Insert(edges, true, "id", "", "").
			Execute(); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Int("edges", len(edges)).Msg("failed to upsert graph edges")
			return errx.WrapStore(err)
		}
	}
	return nil
}

func (s *SupabaseStore) SaveInsight(ctx context.Context, insight Insight) error {
	if insight.CreatedAt == "" {
		insight.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, _, err := s.client.From(tableInsights).
		Insert(insight, false, "", "", "").
		Execute()
	if err != nil {
		logx.Error().Err(err).Str("user_id", insight.UserID).Msg("failed to save insight")
		return errx.WrapStore(err)
	}
	return nil
}

var _ GraphStore = (*SupabaseStore)(nil)
