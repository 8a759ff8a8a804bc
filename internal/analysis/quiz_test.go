package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluent-web3/agent/internal/store"
)

func TestGenerateQuizParsesQuestions(t *testing.T) {
	gs := &fakeGraphStore{sentences: []store.CapturedSentence{
		{ID: "s1", Sentence: "Uniswap is an AMM", Context: "DeFi"},
	}}
	chatModel := &stubChatModel{reply: `{"questions":[
		{"question":"What is Uniswap?","options":["An AMM","A wallet","An L2","An oracle"],"correct":"a","explanation":"It is an automated market maker."}
	]}`}

	qs := NewQuizGenerator(gs, chatModel).GenerateQuiz(context.Background(), "user-1", "DeFi", 2)
	require.Len(t, qs, 1)
	assert.Equal(t, "What is Uniswap?", qs[0].Question)
}

func TestGenerateQuizFallsBackOnModelError(t *testing.T) {
	chatModel := &stubChatModel{err: fmt.Errorf("unavailable")}

	qs := NewQuizGenerator(&fakeGraphStore{}, chatModel).GenerateQuiz(context.Background(), "user-1", "NFT", 1)
	require.Len(t, qs, 1)
	assert.Len(t, qs[0].Options, 4)
	assert.Equal(t, "a", qs[0].Correct)
}

func TestGenerateQuizFallsBackOnGarbage(t *testing.T) {
	chatModel := &stubChatModel{reply: "no quiz today"}

	qs := NewQuizGenerator(nil, chatModel).GenerateQuiz(context.Background(), "", "DeFi", 1)
	require.Len(t, qs, 1)
	assert.NotEmpty(t, qs[0].Question)
}
