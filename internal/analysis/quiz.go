package analysis

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/fluent-web3/agent/internal/agent/graph/parsers"
	"github.com/fluent-web3/agent/internal/agent/graph/prompts"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

const defaultQuizCount = 3

// QuizGenerator builds multiple-choice quizzes from a user's captured
// sentences for one topic cluster.
type QuizGenerator struct {
	graphStore store.GraphStore
	chatModel  einomodel.BaseChatModel
}

func NewQuizGenerator(graphStore store.GraphStore, chatModel einomodel.BaseChatModel) *QuizGenerator {
	return &QuizGenerator{graphStore: graphStore, chatModel: chatModel}
}

// GenerateQuiz produces at least one question. When the model yields nothing
// usable, or the persistence bridge is unavailable, a generic fallback
// question for the cluster is returned instead of an error.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, userID, cluster string, difficulty int) []model.QuizQuestion {
	log := logx.With("quiz_generator")

	var material string
	if g.graphStore != nil && userID != "" {
		sentences, err := g.graphStore.SentencesByCluster(ctx, userID, cluster)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Str("cluster", cluster).Msg("failed to load quiz material")
		} else {
			var b strings.Builder
			for _, s := range sentences {
				b.WriteString(s.Sentence + "\n")
			}
			material = b.String()
		}
	}

	system, err := prompts.RenderQuiz(ctx, cluster, difficulty, defaultQuizCount, material)
	if err != nil {
		log.Error().Err(err).Msg("quiz prompt render failed")
		return fallbackQuiz(cluster)
	}

	out, err := g.chatModel.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(fmt.Sprintf("Generate a %s quiz.", cluster)),
	})
	if err != nil {
		log.Error().Err(err).Str("cluster", cluster).Msg("quiz model call failed")
		return fallbackQuiz(cluster)
	}

	questions, err := parsers.ParseQuiz(out.Content)
	if err != nil {
		log.Warn().Err(err).Str("reply", out.Content).Msg("unusable quiz reply")
		return fallbackQuiz(cluster)
	}
	return questions
}

// fallbackQuiz is the guaranteed-one-question floor.
func fallbackQuiz(cluster string) []model.QuizQuestion {
	return []model.QuizQuestion{{
		Question: fmt.Sprintf("Which area does the topic %q belong to?", cluster),
		Options: []string{
			"Web3 and blockchain technology",
			"Classical literature",
			"Organic chemistry",
			"Renaissance painting",
		},
		Correct:     "a",
		Explanation: fmt.Sprintf("%s is part of the Web3 and blockchain knowledge captured in your graph.", cluster),
	}}
}
