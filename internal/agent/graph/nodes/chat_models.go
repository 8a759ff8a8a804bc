package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/fluent-web3/agent/internal/agent/model"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation. The genai
// client is shared with the badge generator, so it is created once upstream.
type ChatModelConfig struct {
	Client           *genai.Client
	ExtractionConfig *model.ExtractionModelConfig
	AnalysisConfig   *model.AnalysisModelConfig
}

// ChatModels holds the extraction and analysis chat models behind the eino
// interface, so graph wiring does not care about the provider.
type ChatModels struct {
	Extraction          einomodel.BaseChatModel
	Analysis            einomodel.BaseChatModel
	ExtractionModelName string
	AnalysisModelName   string
}

// NewChatModels creates both chat models over a shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Client == nil {
		return nil, fmt.Errorf("genai client is nil")
	}

	extraction, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.ExtractionConfig.Model,
		Temperature: &config.ExtractionConfig.Temperature,
		MaxTokens:   &config.ExtractionConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extraction model")
		return nil, fmt.Errorf("error creating extraction model: %w", err)
	}

	analysis, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      config.Client,
		Model:       config.AnalysisConfig.Model,
		Temperature: &config.AnalysisConfig.Temperature,
		MaxTokens:   &config.AnalysisConfig.MaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: true,
			ThinkingBudget:  genai.Ptr(int32(2000)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating analysis model")
		return nil, fmt.Errorf("error creating analysis model: %w", err)
	}

	return &ChatModels{
		Extraction:          extraction,
		Analysis:            analysis,
		ExtractionModelName: config.ExtractionConfig.Model,
		AnalysisModelName:   config.AnalysisConfig.Model,
	}, nil
}
