// Package graph composes the chat command router as an eino graph: a
// classifier fans each message out to the direct query, concept dump,
// analysis, or extraction path, and every path converges on a markdown
// reply message.
package graph

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/graph/conversations"
	"github.com/fluent-web3/agent/internal/agent/graph/nodes"
	"github.com/fluent-web3/agent/internal/agent/graph/observers"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/kg"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

const fallbackReply = "⚠️ Sorry, something went wrong while processing your message. " +
	"Your knowledge graph is unchanged. Please try again."

// Runner executes the compiled chat graph for one inbound message.
type Runner interface {
	Invoke(ctx context.Context, in model.QueryInput) string
}

// GraphConfig holds the already-constructed collaborators for graph building.
type GraphConfig struct {
	ChatModels      *nodes.ChatModels
	MessagesManager *conversations.MessagesManager
	Store           *kg.Store
}

// GraphBuilder handles the construction of the chat command graph.
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRunner struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

// Invoke is fail-soft: any graph error is logged and replaced with an
// apologetic markdown reply, never surfaced to the transport layer.
func (r *graphRunner) Invoke(ctx context.Context, in model.QueryInput) string {
	out, err := r.runnable.Invoke(ctx, in, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Err(err).Str("session_id", in.SessionID).Msg("chat graph invocation failed")
		return fallbackReply
	}
	if out == nil || out.Content == "" {
		logx.Warn().Str("session_id", in.SessionID).Msg("chat graph produced empty reply")
		return fallbackReply
	}
	return out.Content
}

// NewRunner wraps a compiled graph in the fail-soft Runner.
func NewRunner(runnable compose.Runnable[model.QueryInput, *schema.Message]) Runner {
	return &graphRunner{runnable: runnable}
}

// BuildGraph constructs and returns the compiled command graph.
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModels == nil || config.ChatModels.Extraction == nil || config.ChatModels.Analysis == nil {
		return nil, fmt.Errorf("chat models are not properly initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Store == nil {
		return nil, fmt.Errorf("fact store is nil")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.AppState {
				return &model.AppState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph.
func (b *GraphBuilder) addNodes() {
	b.graph.AddLambdaNode(nodes.NodeClassifier,
		nodes.NewClassifierNode(),
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeDirectQuery,
		nodes.NewDirectQueryNode(b.config.Store),
	)

	b.graph.AddLambdaNode(nodes.NodeDump,
		nodes.NewDumpNode(b.config.Store),
	)

	b.graph.AddLambdaNode(nodes.NodeAnalysisPrompt,
		nodes.NewAnalysisPromptNode(b.config.Store),
	)

	b.graph.AddChatModelNode(nodes.NodeAnalysisModel,
		b.config.ChatModels.Analysis,
		compose.WithStatePostHandler(nodes.NewModelCostPostHandler(nodes.NodeAnalysisModel, b.config.ChatModels.AnalysisModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeAnalysisFormat,
		nodes.NewAnalysisFormatNode(),
	)

	b.graph.AddLambdaNode(nodes.NodeExtractionPrompt,
		nodes.NewExtractionPromptNode(b.config.MessagesManager),
	)

	b.graph.AddChatModelNode(nodes.NodeExtractionModel,
		b.config.ChatModels.Extraction,
		compose.WithStatePostHandler(nodes.NewModelCostPostHandler(nodes.NodeExtractionModel, b.config.ChatModels.ExtractionModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeIngest,
		nodes.NewIngestNode(b.config.Store, b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes.
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeClassifier},
		{nodes.NodeDirectQuery, compose.END},
		{nodes.NodeDump, compose.END},
		{nodes.NodeAnalysisPrompt, nodes.NodeAnalysisModel},
		{nodes.NodeAnalysisModel, nodes.NodeAnalysisFormat},
		{nodes.NodeAnalysisFormat, compose.END},
		{nodes.NodeExtractionPrompt, nodes.NodeExtractionModel},
		{nodes.NodeExtractionModel, nodes.NodeIngest},
		{nodes.NodeIngest, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches wires the classifier's command branch.
func (b *GraphBuilder) addBranches() error {
	commandBranch := compose.NewGraphBranch(
		nodes.NewCommandBranchCondition(),
		map[string]bool{
			nodes.NodeDirectQuery:      true,
			nodes.NodeDump:             true,
			nodes.NodeAnalysisPrompt:   true,
			nodes.NodeExtractionPrompt: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeClassifier, commandBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding command branch")
		return fmt.Errorf("error adding command branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph.
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(20))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
