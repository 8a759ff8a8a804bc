package extract

import (
	"context"
	"fmt"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluent-web3/agent/internal/agent/model"
)

type stubChatModel struct {
	reply string
	err   error
}

func (s *stubChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if s.err != nil {
		return nil, s.err
	}
	return schema.AssistantMessage(s.reply, nil), nil
}

func (s *stubChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("not implemented")
}

func TestExtractParsesReply(t *testing.T) {
	e := NewExtractor(&stubChatModel{
		reply: `{"terms":["paymaster"],"context":"Web3","relations":[["paymaster","sponsors","user_operation"]]}`,
	}, "gemini-2.5-flash")

	res, err := e.Extract(context.Background(), "the paymaster sponsors the user operation")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"paymaster"}, res.Terms)
	assert.Equal(t, model.ContextWeb3, res.Context)
	require.Len(t, res.Relations, 1)
}

func TestExtractModelErrorFailsSoft(t *testing.T) {
	e := NewExtractor(&stubChatModel{err: fmt.Errorf("quota exceeded")}, "gemini-2.5-flash")

	res, err := e.Extract(context.Background(), "anything")
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Terms)
	assert.Equal(t, model.ContextGeneral, res.Context)
	assert.Empty(t, res.Relations)
}

func TestExtractGarbageReplyFailsSoft(t *testing.T) {
	e := NewExtractor(&stubChatModel{reply: "sorry, I cannot help with that"}, "gemini-2.5-flash")

	res, err := e.Extract(context.Background(), "anything")
	assert.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, model.ContextGeneral, res.Context)
}

func TestExtractMissingContextUsesKeywordFallback(t *testing.T) {
	e := NewExtractor(&stubChatModel{reply: `{"terms":["uniswap"],"relations":[]}`}, "gemini-2.5-flash")

	res, err := e.Extract(context.Background(), "Uniswap runs on liquidity pools")
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, model.ContextDeFi, res.Context)
}
