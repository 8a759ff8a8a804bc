package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fluent-web3/agent/internal/agent/model"
)

// ParseExtraction parses the extraction model's reply into an
// ExtractionResult. The term list is capped at model.MaxTerms and the context
// folded into the closed context set; relations shorter than a full triple
// are dropped here so the fact store never sees them. A missing context is
// returned as the empty string so the caller can run its keyword fallback.
// Callers substitute model.DefaultExtraction() on error (fail-soft).
func ParseExtraction(content string) (*model.ExtractionResult, error) {
	raw, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Terms     []string   `json:"terms"`
		Context   string     `json:"context"`
		Relations [][]string `json:"relations"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("extraction reply: %w", err)
	}

	context := ""
	if strings.TrimSpace(parsed.Context) != "" {
		context = model.NormalizeContext(parsed.Context)
	}
	out := &model.ExtractionResult{
		Terms:     capStrings(parsed.Terms, model.MaxTerms),
		Context:   context,
		Relations: make([][]string, 0, len(parsed.Relations)),
	}
	for _, rel := range parsed.Relations {
		if len(rel) < 3 {
			continue
		}
		out.Relations = append(out.Relations, rel[:3])
	}
	return out, nil
}
