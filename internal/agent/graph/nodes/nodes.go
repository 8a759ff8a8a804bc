package nodes

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/extract"
	"github.com/fluent-web3/agent/internal/agent/graph/conversations"
	"github.com/fluent-web3/agent/internal/agent/graph/parsers"
	"github.com/fluent-web3/agent/internal/agent/graph/prompts"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/kg"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// Graph node names.
const (
	NodeClassifier       = "Classifier"
	NodeDirectQuery      = "DirectQuery"
	NodeDump             = "ConceptDump"
	NodeAnalysisPrompt   = "AnalysisPrompt"
	NodeAnalysisModel    = "AnalysisChatModel"
	NodeAnalysisFormat   = "AnalysisFormatter"
	NodeExtractionPrompt = "ExtractionPrompt"
	NodeExtractionModel  = "ExtractionChatModel"
	NodeIngest           = "FactIngest"
)

const queryHint = "\n\n💡 Try: `metta: (match &self (concept $x account_abstraction) $x)` to query the graph."

// NewClassifierPreHandler seeds per-invocation state before classification.
func NewClassifierPreHandler() func(context.Context, model.QueryInput, *model.AppState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.AppState) (model.QueryInput, error) {
		if s.SessionID == "" {
			s.SessionID = in.SessionID
		}
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewClassifierNode maps raw chat text onto a typed Command for branching.
func NewClassifierNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) (model.Command, error) {
		cmd := model.ClassifyCommand(input.Text)
		logx.Debug().
			Str("session_id", input.SessionID).
			Int("command_kind", int(cmd.Kind)).
			Msg("chat command classified")
		return cmd, nil
	})
}

// NewClassifierPostHandler records the classified command in state so the
// ingest node can recover the original text.
func NewClassifierPostHandler() func(context.Context, model.Command, *model.AppState) (model.Command, error) {
	return func(ctx context.Context, out model.Command, state *model.AppState) (model.Command, error) {
		state.Command = out
		return out, nil
	}
}

// NewCommandBranchCondition routes each command kind to its handler node.
func NewCommandBranchCondition() func(context.Context, model.Command) (string, error) {
	return func(ctx context.Context, cmd model.Command) (string, error) {
		switch cmd.Kind {
		case model.CommandQuery:
			return NodeDirectQuery, nil
		case model.CommandDump:
			return NodeDump, nil
		case model.CommandAnalyze:
			return NodeAnalysisPrompt, nil
		default:
			return NodeExtractionPrompt, nil
		}
	}
}

// NewDirectQueryNode evaluates a pattern query against the fact base. No
// model call is involved; the reply echoes the query and its matches.
func NewDirectQueryNode(store *kg.Store) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, cmd model.Command) (*schema.Message, error) {
		results := store.Query(cmd.Query)

		var body string
		if len(results) == 0 {
			body = "No results found in knowledge graph."
		} else {
			var b strings.Builder
			for _, r := range results {
				b.WriteString("- `" + r + "`\n")
			}
			body = b.String()
		}

		reply := fmt.Sprintf("🔗 **[Graph Query]**\n`%s`\n\n**Result:**\n%s", cmd.Query, body)
		return schema.AssistantMessage(reply, nil), nil
	})
}

// NewDumpNode lists every concept currently in the fact base.
func NewDumpNode(store *kg.Store) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, cmd model.Command) (*schema.Message, error) {
		var b strings.Builder
		b.WriteString("📚 **All Concepts in Knowledge Graph:**\n")
		n := 0
		for term := range store.Concepts("") {
			b.WriteString("- `" + term + "`\n")
			n++
		}
		if n == 0 {
			b.WriteString("_(empty)_\n")
		}
		return schema.AssistantMessage(b.String(), nil), nil
	})
}

// NewAnalysisPromptNode renders the overview analysis prompt with the current
// fact-base snapshot embedded.
func NewAnalysisPromptNode(store *kg.Store) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, cmd model.Command) ([]*schema.Message, error) {
		snapshot, err := json.Marshal(store.Export())
		if err != nil {
			return nil, fmt.Errorf("marshal snapshot: %w", err)
		}
		system, err := prompts.RenderAnalysisSystem(ctx, model.AnalysisOverview, string(snapshot), cmd.Text)
		if err != nil {
			return nil, fmt.Errorf("render analysis prompt: %w", err)
		}
		return []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(cmd.Text),
		}, nil
	})
}

// NewAnalysisFormatNode parses the analysis reply into markdown. A reply the
// parser cannot handle degrades to the raw model text rather than an error.
func NewAnalysisFormatNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*schema.Message, error) {
		res, err := parsers.ParseAnalysis(resp.Content)
		if err != nil {
			logx.Warn().Err(err).Msg("unparseable analysis reply, passing through raw text")
			return schema.AssistantMessage("🧠 **Graph Analysis**\n\n"+strings.TrimSpace(resp.Content), nil), nil
		}

		var b strings.Builder
		b.WriteString("🧠 **Graph Analysis**\n\n")
		b.WriteString(res.Summary + "\n")
		if len(res.Insights) > 0 {
			b.WriteString("\n**Insights:**\n")
			for _, in := range res.Insights {
				b.WriteString("- " + in + "\n")
			}
		}
		if len(res.Suggestions) > 0 {
			b.WriteString("\n**Suggestions:**\n")
			for _, s := range res.Suggestions {
				b.WriteString("- " + s + "\n")
			}
		}
		return schema.AssistantMessage(b.String(), nil), nil
	})
}

// NewExtractionPromptNode saves the user message, builds the conversation
// context, and assembles the extraction model input.
func NewExtractionPromptNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, cmd model.Command) ([]*schema.Message, error) {
		var sessionID string
		if err := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			sessionID = state.SessionID
			return nil
		}); err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		conversationCtx, err := mm.ProcessUserMessage(ctx, sessionID, cmd.Text)
		if err != nil {
			return nil, fmt.Errorf("error getting conversation context: %w", err)
		}

		system, err := prompts.RenderExtractionSystem(ctx)
		if err != nil {
			return nil, fmt.Errorf("render extraction prompt: %w", err)
		}

		return []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(conversationCtx),
		}, nil
	})
}

// NewIngestNode parses the extraction reply, writes the facts into the store,
// and formats the markdown summary. A parse failure degrades to the neutral
// extraction result, so the reply still renders and the graph never errors
// on model noise.
func NewIngestNode(store *kg.Store, mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (*schema.Message, error) {
		res, err := parsers.ParseExtraction(resp.Content)
		if err != nil {
			logx.Warn().Err(err).Msg("unparseable extraction reply, using neutral result")
			res = model.DefaultExtraction()
		}

		var sessionID, originalText string
		stateErr := compose.ProcessState(ctx, func(_ context.Context, state *model.AppState) error {
			sessionID = state.SessionID
			originalText = state.Command.Text
			return nil
		})
		if stateErr != nil {
			return nil, fmt.Errorf("failed to access state: %w", stateErr)
		}

		if res.Context == "" {
			res.Context = extract.ClassifyContext(originalText)
		}
		for _, term := range res.Terms {
			store.InsertConcept(term, res.Context)
		}
		for _, rel := range res.Relations {
			store.InsertTriple(rel)
		}
		logx.Debug().
			Str("session_id", sessionID).
			Int("terms", len(res.Terms)).
			Int("relations", len(res.Relations)).
			Str("context", res.Context).
			Msg("facts ingested")

		reply := fmt.Sprintf(
			"🔍 **Web3 Concept Analysis**\n\n"+
				"**Extracted Terms:** %s\n"+
				"**Context:** %s\n"+
				"**Relations Found:** %d\n\n"+
				"✅ **Knowledge graph updated with new concepts!**"+queryHint,
			strings.Join(res.Terms, ", "), res.Context, len(res.Relations),
		)

		if err := mm.SaveResponse(ctx, sessionID, reply); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Msg("error saving assistant response")
		}

		return schema.AssistantMessage(reply, nil), nil
	})
}

// NewModelCostPostHandler computes and logs usage cost for a chat model node
// and accumulates the running total in state.
func NewModelCostPostHandler(nodeName, modelName string) func(context.Context, *schema.Message, *model.AppState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.AppState) (*schema.Message, error) {
		if model.CostEnabled() && out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := model.ComputeCost(out.ResponseMeta.Usage, pricing)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("session_id", state.SessionID).
				Str("node", nodeName).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}
		return out, nil
	}
}
