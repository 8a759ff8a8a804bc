package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// ParseGaps parses the gap-detection reply. Gaps with no cluster name or no
// missing concepts are dropped; confidences are clamped into [0, 1].
func ParseGaps(content string) (*model.GapReport, error) {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Gaps []struct {
			Cluster         string   `json:"cluster"`
			MissingConcepts []string `json:"missing_concepts"`
			Confidence      float64  `json:"confidence"`
		} `json:"gaps"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("gap reply: %w", err)
	}

	report := &model.GapReport{
		Gaps:        make([]model.ConceptGap, 0, len(parsed.Gaps)),
		Suggestions: capStrings(parsed.Suggestions, model.MaxSuggestions),
	}
	for _, g := range parsed.Gaps {
		cluster := strings.TrimSpace(g.Cluster)
		concepts := capStrings(g.MissingConcepts, model.MaxInsights)
		if cluster == "" || len(concepts) == 0 {
			continue
		}
		report.Gaps = append(report.Gaps, model.ConceptGap{
			Cluster:         cluster,
			MissingConcepts: concepts,
			Confidence:      clamp01(g.Confidence),
		})
	}
	return report, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
