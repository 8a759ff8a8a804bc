package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectDirect(t *testing.T) {
	b, err := ExtractJSONObject(`{"terms":["gas"]}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"terms":["gas"]}`, string(b))
}

func TestExtractJSONObjectFenced(t *testing.T) {
	content := "Here you go:\n```json\n{\"context\": \"defi\"}\n```\nHope that helps."
	b, err := ExtractJSONObject(content)
	require.NoError(t, err)
	assert.JSONEq(t, `{"context":"defi"}`, string(b))
}

func TestExtractJSONObjectBalanced(t *testing.T) {
	content := `The extraction is {"terms": ["mev", "searcher"], "note": "has } inside: \"{\""} as requested.`
	b, err := ExtractJSONObject(content)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"mev"`)
}

func TestExtractJSONObjectTrailingComma(t *testing.T) {
	content := `result: {"terms": ["rollup",], "context": "layer2",}`
	b, err := ExtractJSONObject(content)
	require.NoError(t, err)
	assert.JSONEq(t, `{"terms":["rollup"],"context":"layer2"}`, string(b))
}

func TestExtractJSONObjectFailures(t *testing.T) {
	for _, content := range []string{"", "no json here", "{broken", "[1, 2, 3]"} {
		_, err := ExtractJSONObject(content)
		assert.Error(t, err, "content %q", content)
	}
}

func TestParseExtractionCapsAndTrims(t *testing.T) {
	content := `{
		"terms": ["a", "b", "c", "d", "e", "f", "g"],
		"context": "DeFi",
		"relations": [["uniswap", "is_a", "dex"], ["orphan", "edge"], ["a", "b", "c", "d"]]
	}`
	res, err := ParseExtraction(content)
	require.NoError(t, err)
	assert.Len(t, res.Terms, 5)
	assert.Equal(t, "DeFi", res.Context)
	require.Len(t, res.Relations, 2)
	assert.Equal(t, []string{"uniswap", "is_a", "dex"}, res.Relations[0])
	assert.Equal(t, []string{"a", "b", "c"}, res.Relations[1])
}

func TestParseExtractionUnknownContext(t *testing.T) {
	res, err := ParseExtraction(`{"terms":["x"],"context":"Cooking","relations":[]}`)
	require.NoError(t, err)
	assert.Equal(t, "General", res.Context)
}

func TestParseExtractionMissingContext(t *testing.T) {
	res, err := ParseExtraction(`{"terms":["x"],"relations":[]}`)
	require.NoError(t, err)
	assert.Empty(t, res.Context)
}

func TestParseAnalysisAcceptsAnalysisKey(t *testing.T) {
	res, err := ParseAnalysis(`{"analysis":"You know the basics.","insights":["i1"],"suggestions":["s1"]}`)
	require.NoError(t, err)
	assert.Equal(t, "You know the basics.", res.Summary)
	assert.Equal(t, []string{"i1"}, res.Insights)
}

func TestParseAnalysisEmptySummary(t *testing.T) {
	_, err := ParseAnalysis(`{"summary":"  ","insights":[]}`)
	assert.Error(t, err)
}

func TestParseGapsClampsAndDrops(t *testing.T) {
	content := `{
		"gaps": [
			{"cluster": "defi", "missing_concepts": ["impermanent_loss"], "confidence": 1.7},
			{"cluster": "", "missing_concepts": ["x"], "confidence": 0.5},
			{"cluster": "nfts", "missing_concepts": [], "confidence": 0.5}
		],
		"suggestions": ["read about AMMs", "", "try a quiz", "a", "b", "c"]
	}`
	report, err := ParseGaps(content)
	require.NoError(t, err)
	require.Len(t, report.Gaps, 1)
	assert.Equal(t, "defi", report.Gaps[0].Cluster)
	assert.Equal(t, 1.0, report.Gaps[0].Confidence)
	assert.Len(t, report.Suggestions, 3)
}

func TestParseQuizValidation(t *testing.T) {
	content := `{"questions": [
		{"question": "What is a rollup?", "options": ["a", "b", "c", "d"], "correct": "B", "explanation": "scaling"},
		{"question": "Three options", "options": ["a", "b", "c"], "correct": "a"},
		{"question": "Bad key", "options": ["a", "b", "c", "d"], "correct": "e"},
		{"question": "", "options": ["a", "b", "c", "d"], "correct": "a"}
	]}`
	qs, err := ParseQuiz(content)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "b", qs[0].Correct)
}

func TestParseQuizAllInvalid(t *testing.T) {
	_, err := ParseQuiz(`{"questions":[]}`)
	assert.Error(t, err)
}
