package analysis

import (
	"context"
	"encoding/json"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/fluent-web3/agent/internal/agent/graph/parsers"
	"github.com/fluent-web3/agent/internal/agent/graph/prompts"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// WeakClusterThreshold is the mean edge weight below which a cluster counts
// as weak. Fixed design constant.
const WeakClusterThreshold = 0.5

const onboardingSuggestion = "Start capturing sentences while you browse to build your knowledge graph, then come back for gap analysis."

// GapDetector finds weak clusters in a user's persisted graph and asks the
// model for the concepts most likely missing from them.
type GapDetector struct {
	graphStore store.GraphStore
	chatModel  einomodel.BaseChatModel
}

func NewGapDetector(graphStore store.GraphStore, chatModel einomodel.BaseChatModel) *GapDetector {
	return &GapDetector{graphStore: graphStore, chatModel: chatModel}
}

// DetectGaps runs the full gap analysis for one user. A user with no
// persisted nodes gets the onboarding short-circuit and no model call.
// Each detected gap is persisted as an insight record fire-and-forget.
func (d *GapDetector) DetectGaps(ctx context.Context, userID string, userXP int, history string) (*model.GapReport, error) {
	log := logx.With("gap_detector")

	if d.graphStore == nil {
		return onboardingReport(), nil
	}

	graph, err := d.graphStore.UserGraph(ctx, userID)
	if err != nil {
		return nil, err
	}
	if graph == nil || len(graph.Nodes) == 0 {
		log.Debug().Str("user_id", userID).Msg("no persisted graph, onboarding path")
		return onboardingReport(), nil
	}

	weak := weakClusters(graph)
	weakJSON, err := json.Marshal(weak)
	if err != nil {
		return nil, err
	}

	system, err := prompts.RenderGapDetection(ctx, prompts.GapPromptInput{
		NodeCount:    len(graph.Nodes),
		EdgeCount:    len(graph.Edges),
		UserXP:       userXP,
		History:      history,
		WeakClusters: string(weakJSON),
		Threshold:    WeakClusterThreshold,
	})
	if err != nil {
		return nil, err
	}

	out, err := d.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage("Identify my knowledge gaps."),
	})
	if err != nil {
		return nil, err
	}

	report, err := parsers.ParseGaps(out.Content)
	if err != nil {
		log.Warn().Err(err).Str("reply", out.Content).Msg("unparseable gap reply")
		return nil, err
	}

	for _, gap := range report.Gaps {
		ins := store.Insight{
			ID:              uuid.NewString(),
			UserID:          userID,
			Cluster:         gap.Cluster,
			MissingConcepts: gap.MissingConcepts,
			Confidence:      gap.Confidence,
			CreatedAt:       time.Now().UTC().Format(time.RFC3339),
		}
		if err := d.graphStore.SaveInsight(ctx, ins); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("cluster", gap.Cluster).Msg("failed to persist insight")
		}
	}

	return report, nil
}

// weakClusters groups edges by the context of their source node and returns
// the clusters whose mean edge weight falls below the threshold. Clusters
// with no edges are silence, not weakness, and are skipped.
func weakClusters(graph *store.UserGraph) []model.WeakCluster {
	contextByNode := make(map[string]string, len(graph.Nodes))
	for _, n := range graph.Nodes {
		ctx := n.Context
		if ctx == "" {
			ctx = model.ContextGeneral
		}
		contextByNode[n.ID] = ctx
	}

	type agg struct {
		sum   float64
		count int
	}
	byCluster := map[string]*agg{}
	order := []string{}
	for _, e := range graph.Edges {
		cluster, ok := contextByNode[e.Source]
		if !ok {
			continue
		}
		a := byCluster[cluster]
		if a == nil {
			a = &agg{}
			byCluster[cluster] = a
			order = append(order, cluster)
		}
		a.sum += e.Weight
		a.count++
	}

	weak := []model.WeakCluster{}
	for _, cluster := range order {
		a := byCluster[cluster]
		avg := a.sum / float64(a.count)
		if avg < WeakClusterThreshold {
			weak = append(weak, model.WeakCluster{
				Cluster:   cluster,
				AvgWeight: avg,
				EdgeCount: a.count,
			})
		}
	}
	return weak
}

func onboardingReport() *model.GapReport {
	return &model.GapReport{
		Gaps:        []model.ConceptGap{},
		Suggestions: []string{onboardingSuggestion},
	}
}
