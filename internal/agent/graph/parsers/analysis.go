package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// ParseAnalysis parses a graph-analysis reply and caps the insight and
// suggestion lists. Models sometimes name the summary field "analysis";
// both are accepted.
func ParseAnalysis(content string) (*model.AnalysisResult, error) {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Summary     string   `json:"summary"`
		Analysis    string   `json:"analysis"`
		Insights    []string `json:"insights"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("analysis reply: %w", err)
	}

	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		summary = strings.TrimSpace(parsed.Analysis)
	}
	if summary == "" {
		return nil, fmt.Errorf("analysis reply: empty summary")
	}

	return &model.AnalysisResult{
		Summary:     summary,
		Insights:    capStrings(parsed.Insights, model.MaxInsights),
		Suggestions: capStrings(parsed.Suggestions, model.MaxSuggestions),
	}, nil
}
