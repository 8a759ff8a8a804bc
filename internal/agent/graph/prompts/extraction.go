package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/model"
)

//go:embed template/extraction_prompt.txt
var extractionSystemPrompt string

// RenderExtractionSystem renders the concept-extraction system prompt via the
// Eino prompt component. This triggers Prompt callbacks and returns the final
// system prompt string.
func RenderExtractionSystem(ctx context.Context) (string, error) {
	// Safely render known tokens only to avoid interfering with JSON braces
	// in the template
	content := strings.NewReplacer(
		"{max_terms}", fmt.Sprintf("%d", model.MaxTerms),
		"{contexts}", strings.Join([]string{
			model.ContextDeFi, model.ContextNFT, model.ContextSmartContract,
			model.ContextWeb3, model.ContextGeneral,
		}, ", "),
	).Replace(extractionSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("extraction prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("extraction prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
