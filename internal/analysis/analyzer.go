// Package analysis hosts the model-backed reasoning services that sit beside
// the chat graph: full-graph analysis, knowledge gap detection, quiz
// generation, and achievement badge rendering.
package analysis

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/graph/parsers"
	"github.com/fluent-web3/agent/internal/agent/graph/prompts"
	"github.com/fluent-web3/agent/internal/agent/model"
	errx "github.com/fluent-web3/agent/internal/core/error"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// Analyzer runs one of the fixed graph analyses over a fact-base snapshot.
type Analyzer struct {
	chatModel einomodel.BaseChatModel
}

func NewAnalyzer(chatModel einomodel.BaseChatModel) *Analyzer {
	return &Analyzer{chatModel: chatModel}
}

// Analyze prompts the model with the snapshot and parses the reply. The
// result is never nil: failures surface their error text in Summary with
// empty insight and suggestion lists, and the error reports what degraded.
func (a *Analyzer) Analyze(ctx context.Context, snapshotJSON string, analysisType model.AnalysisType, userContext string) (*model.AnalysisResult, error) {
	log := logx.With("analyzer")

	system, err := prompts.RenderAnalysisSystem(ctx, analysisType, snapshotJSON, userContext)
	if err != nil {
		log.Error().Err(err).Str("type", string(analysisType)).Msg("analysis prompt render failed")
		return failedAnalysis(err), err
	}

	out, err := a.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(fmt.Sprintf("Run the %s analysis on my knowledge graph.", analysisType)),
	})
	if err != nil {
		log.Error().Err(err).Str("type", string(analysisType)).Msg("analysis model call failed")
		err = errx.WrapModel(err)
		return failedAnalysis(err), err
	}

	res, err := parsers.ParseAnalysis(out.Content)
	if err != nil {
		log.Warn().Err(err).Str("reply", out.Content).Msg("unparseable analysis reply")
		return failedAnalysis(err), err
	}
	return res, nil
}

func failedAnalysis(err error) *model.AnalysisResult {
	return &model.AnalysisResult{
		Summary:     fmt.Sprintf("Analysis unavailable: %v", err),
		Insights:    []string{},
		Suggestions: []string{},
	}
}
