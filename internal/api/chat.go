package api

import (
	"time"

	"github.com/google/uuid"
)

// Chat content item types.
const (
	ContentText         = "text"
	ContentStartSession = "start_session"
	ContentEndSession   = "end_session"
)

// ChatContent is one item of a chat message. Text is required only for
// items of type "text".
type ChatContent struct {
	Type string `json:"type" binding:"required"`
	Text string `json:"text,omitempty"`
}

// ChatMessage is the chat protocol envelope. SessionID ties messages of one
// conversation together; missing ids are substituted server-side so a bare
// message is still valid.
type ChatMessage struct {
	ID        string        `json:"id"`
	SessionID string        `json:"sessionId,omitempty"`
	Timestamp string        `json:"timestamp"`
	Content   []ChatContent `json:"content" binding:"required,min=1"`
}

// ChatAcknowledgement confirms receipt of a message independently of the
// processing outcome.
type ChatAcknowledgement struct {
	AckOf     string `json:"ackOf"`
	Timestamp string `json:"timestamp"`
}

// ChatResponse folds the protocol's send/ack pair into one synchronous
// envelope: the acknowledgement plus one reply message per text item.
type ChatResponse struct {
	Success         bool                `json:"success"`
	Acknowledgement ChatAcknowledgement `json:"acknowledgement"`
	Messages        []ChatMessage       `json:"messages"`
	Error           string              `json:"error,omitempty"`
}

func newReplyMessage(sessionID, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Content:   []ChatContent{{Type: ContentText, Text: text}},
	}
}
