package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/model"
)

//go:embed template/gap_detection.txt
var gapDetectionPrompt string

// GapPromptInput carries everything the gap-detection prompt needs about the
// user's persisted graph.
type GapPromptInput struct {
	NodeCount    int
	EdgeCount    int
	UserXP       int
	History      string
	WeakClusters string // JSON-encoded []model.WeakCluster
	Threshold    float64
}

// RenderGapDetection renders the gap-detection prompt for the weak clusters
// found in a user's persisted graph.
func RenderGapDetection(ctx context.Context, in GapPromptInput) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(gapDetectionPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"NodeCount":      in.NodeCount,
		"EdgeCount":      in.EdgeCount,
		"UserXP":         in.UserXP,
		"History":        in.History,
		"WeakClusters":   in.WeakClusters,
		"Threshold":      in.Threshold,
		"MaxSuggestions": model.MaxSuggestions,
	})
	if err != nil {
		return "", fmt.Errorf("gap prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("gap prompt render: empty result")
	}
	return msgs[0].Content, nil
}
