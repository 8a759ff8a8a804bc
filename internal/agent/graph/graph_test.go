package graph

import (
	"context"
	"fmt"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluent-web3/agent/internal/agent/graph/conversations"
	"github.com/fluent-web3/agent/internal/agent/graph/nodes"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/kg"
)

type stubChatModel struct {
	reply string
	err   error
	calls int
}

func (s *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("not implemented")
}

// memoryRepo is an in-process ConversationRepository for tests.
type memoryRepo struct {
	messages map[string][]*schema.Message
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{messages: map[string][]*schema.Message{}}
}

func (m *memoryRepo) AddMessage(ctx context.Context, sessionID string, msg *schema.Message) error {
	m.messages[sessionID] = append(m.messages[sessionID], msg)
	return nil
}

func (m *memoryRepo) LoadHistory(ctx context.Context, sessionID string) (*model.ConversationHistory, error) {
	return &model.ConversationHistory{SessionID: sessionID, Messages: m.messages[sessionID]}, nil
}

func (m *memoryRepo) ClearHistory(ctx context.Context, sessionID string) error {
	delete(m.messages, sessionID)
	return nil
}

func (m *memoryRepo) GetMessageCount(ctx context.Context, sessionID string) (int, error) {
	return len(m.messages[sessionID]), nil
}

func buildTestRunner(t *testing.T, store *kg.Store, extraction, analysis *stubChatModel) Runner {
	t.Helper()

	mm := conversations.NewMessagesManager(newMemoryRepo(), model.ConversationConfig{MaxTurns: 5})
	runnable, err := BuildGraph(context.Background(), &GraphConfig{
		ChatModels: &nodes.ChatModels{
			Extraction:          extraction,
			Analysis:            analysis,
			ExtractionModelName: "gemini-2.5-flash",
			AnalysisModelName:   "gemini-2.5-flash",
		},
		MessagesManager: mm,
		Store:           store,
	})
	require.NoError(t, err)
	return NewRunner(runnable)
}

func TestDirectQueryNeverCallsExtraction(t *testing.T) {
	extraction := &stubChatModel{reply: "{}"}
	store := kg.NewSeededStore()
	runner := buildTestRunner(t, store, extraction, &stubChatModel{})

	query := "metta: (match &self (concept $x account_abstraction) $x)"
	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: query})

	assert.Contains(t, reply, "(match &self (concept $x account_abstraction) $x)")
	assert.Contains(t, reply, "erc4337")
	assert.Zero(t, extraction.calls, "direct queries must not call the extraction model")
}

func TestDumpListsSeededConcepts(t *testing.T) {
	extraction := &stubChatModel{reply: "{}"}
	runner := buildTestRunner(t, kg.NewSeededStore(), extraction, &stubChatModel{})

	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: "Show Unexplored"})

	assert.Contains(t, reply, "erc4337")
	assert.Contains(t, reply, "relayer")
	assert.Zero(t, extraction.calls)
}

func TestExtractionPathIngestsFacts(t *testing.T) {
	extraction := &stubChatModel{
		reply: `{"terms":["Flash Loan"],"context":"DeFi","relations":[["flash loan","enables","arbitrage"]]}`,
	}
	store := kg.NewSeededStore()
	runner := buildTestRunner(t, store, extraction, &stubChatModel{})

	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: "What is a flash loan?"})

	assert.Contains(t, reply, "Flash Loan")
	assert.Equal(t, 1, extraction.calls)

	var terms []string
	for term := range store.Concepts("defi") {
		terms = append(terms, term)
	}
	assert.Contains(t, terms, "flash_loan")

	found := false
	for r := range store.Relations() {
		if r.Predicate == "enables" && r.Subject == "flash_loan" && r.Object == "arbitrage" {
			found = true
		}
	}
	assert.True(t, found, "extracted relation should be ingested")
}

func TestExtractionGarbageLeavesStoreUnchanged(t *testing.T) {
	extraction := &stubChatModel{reply: "I refuse to answer in JSON"}
	store := kg.NewSeededStore()
	before := store.Size()
	runner := buildTestRunner(t, store, extraction, &stubChatModel{})

	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: "Tell me about rollups"})

	assert.Contains(t, reply, "Context:")
	assert.Equal(t, before, store.Size())
}

func TestAnalyzeCommandUsesAnalysisModel(t *testing.T) {
	analysis := &stubChatModel{reply: `{"summary":"You lean DeFi.","insights":["a"],"suggestions":["b"]}`}
	extraction := &stubChatModel{reply: "{}"}
	runner := buildTestRunner(t, kg.NewSeededStore(), extraction, analysis)

	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: "analyze graph"})

	assert.Contains(t, reply, "You lean DeFi.")
	assert.Equal(t, 1, analysis.calls)
	assert.Zero(t, extraction.calls)
}

func TestModelFailureYieldsApology(t *testing.T) {
	extraction := &stubChatModel{err: fmt.Errorf("deadline exceeded")}
	runner := buildTestRunner(t, kg.NewSeededStore(), extraction, &stubChatModel{})

	reply := runner.Invoke(context.Background(), model.QueryInput{SessionID: "s1", Text: "hello"})

	assert.True(t, strings.Contains(reply, "Sorry"), "graph errors must degrade to an apologetic reply")
}
