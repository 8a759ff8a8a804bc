package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/quiz_prompt.txt
var quizPrompt string

// RenderQuiz renders the quiz-generation prompt for a topic cluster.
// sentences is a newline-joined list of the learner's captured sentences for
// the cluster, empty when none exist.
func RenderQuiz(ctx context.Context, cluster string, difficulty, count int, sentences string) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(quizPrompt),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"Cluster":    cluster,
		"Difficulty": difficulty,
		"Count":      count,
		"Sentences":  sentences,
	})
	if err != nil {
		return "", fmt.Errorf("quiz prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("quiz prompt render: empty result")
	}
	return msgs[0].Content, nil
}
