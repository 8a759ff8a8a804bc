package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/model"
)

//go:embed template/analysis_overview.txt
var analysisOverviewPrompt string

//go:embed template/analysis_learning_path.txt
var analysisLearningPathPrompt string

//go:embed template/analysis_clusters.txt
var analysisClustersPrompt string

//go:embed template/analysis_gaps.txt
var analysisGapsPrompt string

func analysisTemplate(t model.AnalysisType) string {
	switch t {
	case model.AnalysisLearningPath:
		return analysisLearningPathPrompt
	case model.AnalysisClusters:
		return analysisClustersPrompt
	case model.AnalysisGaps:
		return analysisGapsPrompt
	default:
		return analysisOverviewPrompt
	}
}

// RenderAnalysisSystem renders one of the four fixed graph-analysis prompts
// with the fact-base snapshot embedded, and triggers prompt callbacks.
func RenderAnalysisSystem(ctx context.Context, analysisType model.AnalysisType, snapshot, userContext string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(analysisTemplate(analysisType)),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Snapshot":       snapshot,
		"UserContext":    userContext,
		"MaxInsights":    model.MaxInsights,
		"MaxSuggestions": model.MaxSuggestions,
	})
	if err != nil {
		return "", fmt.Errorf("analysis prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("analysis prompt render: empty result")
	}
	return msgs[0].Content, nil
}
