package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// MessagesManager bridges the chat graph and the conversation repository.
// It records every exchange and renders recent turns into the textual
// context blocks the extraction and gap-detection prompts consume.
type MessagesManager struct {
	conversationRepo model.ConversationRepository
	maxTurns         int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		maxTurns:         config.MaxTurns,
	}
}

// ProcessUserMessage saves the incoming message and returns the full context
// string for the extraction model: recent history plus the message to
// analyze, wrapped in tags the prompt template names.
func (cm *MessagesManager) ProcessUserMessage(ctx context.Context, sessionID string, text string) (string, error) {
	userMsg := schema.UserMessage(text)
	if err := cm.conversationRepo.AddMessage(ctx, sessionID, userMsg); err != nil {
		return "", err
	}

	history, err := cm.conversationRepo.LoadHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var fullContext strings.Builder
	fullContext.WriteString(cm.buildHistoryContext(history.Messages))
	fullContext.WriteString("\n<current_message_to_analyze>\n")
	fullContext.WriteString("UserMessage(" + text + ")\n")
	fullContext.WriteString("</current_message_to_analyze>")

	return fullContext.String(), nil
}

// HistoryDigest renders the session's recent turns as plain lines, one per
// message. Used by gap detection to give the model conversational grounding.
func (cm *MessagesManager) HistoryDigest(ctx context.Context, sessionID string) (string, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}
	recent := trimTail(history.Messages, cm.maxTurns)

	var b strings.Builder
	for _, msg := range recent {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			b.WriteString("user: " + msg.Content + "\n")
		case schema.Assistant:
			b.WriteString("assistant: " + msg.Content + "\n")
		}
	}
	return b.String(), nil
}

func (cm *MessagesManager) buildHistoryContext(messages []*schema.Message) string {
	recentMessages := trimTail(messages, cm.maxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recentMessages {
		if msg == nil || msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

func (cm *MessagesManager) SaveResponse(ctx context.Context, sessionID string, content string) error {
	assistantMsg := schema.AssistantMessage(content, nil)
	return cm.conversationRepo.AddMessage(ctx, sessionID, assistantMsg)
}

// trimTail keeps the most recent maxTurns messages, copied so callers may
// mutate the result.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
