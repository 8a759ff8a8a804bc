// Package extract turns free-form user text into graph facts: key terms, a
// context label, and relation triples. Extraction never fails the caller;
// any model or parse error degrades to the neutral default result.
package extract

import (
	"context"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/graph/parsers"
	"github.com/fluent-web3/agent/internal/agent/graph/prompts"
	"github.com/fluent-web3/agent/internal/agent/model"
	errx "github.com/fluent-web3/agent/internal/core/error"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// Extractor calls the extraction chat model and parses its reply.
type Extractor struct {
	chatModel einomodel.BaseChatModel
	modelName string
}

func NewExtractor(chatModel einomodel.BaseChatModel, modelName string) *Extractor {
	return &Extractor{chatModel: chatModel, modelName: modelName}
}

// Extract runs concept extraction over text. The result is never nil: on any
// failure it is model.DefaultExtraction() and the returned error says what
// degraded. When the model names no context, the keyword classifier supplies
// one.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.ExtractionResult, error) {
	log := logx.With("extractor")

	system, err := prompts.RenderExtractionSystem(ctx)
	if err != nil {
		log.Error().Err(err).Msg("extraction prompt render failed")
		return model.DefaultExtraction(), err
	}

	out, err := e.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(text),
	})
	if err != nil {
		log.Error().Err(err).Msg("extraction model call failed")
		return model.DefaultExtraction(), errx.WrapModel(err)
	}

	if model.CostEnabled() && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
		usage := out.ResponseMeta.Usage
		_, _, total := model.ComputeCost(usage, model.ResolvePricing(e.modelName))
		log.Debug().
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Float64("cost_usd", total).
			Msg("extraction model usage")
	}

	res, err := parsers.ParseExtraction(out.Content)
	if err != nil {
		log.Warn().Err(err).Str("reply", out.Content).Msg("unparseable extraction reply")
		return model.DefaultExtraction(), err
	}
	if res.Context == "" {
		res.Context = ClassifyContext(text)
	}
	return res, nil
}
