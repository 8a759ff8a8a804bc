package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// ParseQuiz parses a generated quiz. Questions that are malformed, that do
// not carry exactly four options, or whose answer key is not a-d are dropped
// instead of failing the whole batch.
func ParseQuiz(content string) ([]model.QuizQuestion, error) {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []model.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("quiz reply: %w", err)
	}

	questions := make([]model.QuizQuestion, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		q.Question = strings.TrimSpace(q.Question)
		q.Correct = strings.ToLower(strings.TrimSpace(q.Correct))
		if q.Question == "" || len(q.Options) != 4 {
			continue
		}
		switch q.Correct {
		case "a", "b", "c", "d":
		default:
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz reply: no usable questions")
	}
	return questions, nil
}
