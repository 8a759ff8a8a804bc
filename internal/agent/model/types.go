package model

// Context labels the extraction model is allowed to produce. Anything else
// is folded into ContextGeneral.
const (
	ContextDeFi          = "DeFi"
	ContextNFT           = "NFT"
	ContextSmartContract = "SmartContract"
	ContextWeb3          = "Web3"
	ContextGeneral       = "General"
)

// MaxTerms caps how many extracted terms a single message may contribute to
// the fact base.
const MaxTerms = 5

// ExtractionResult is the parsed output of the concept-extraction model.
// The zero-ish DefaultExtraction is substituted whenever the model call or
// its parsing fails.
type ExtractionResult struct {
	Terms     []string   `json:"terms"`
	Context   string     `json:"context"`
	Relations [][]string `json:"relations"`
}

// DefaultExtraction is the neutral fail-soft value: no terms, no relations,
// General context.
func DefaultExtraction() *ExtractionResult {
	return &ExtractionResult{Terms: []string{}, Context: ContextGeneral, Relations: [][]string{}}
}

// NormalizeContext folds an arbitrary model-produced context label into the
// closed set above.
func NormalizeContext(c string) string {
	switch c {
	case ContextDeFi, ContextNFT, ContextSmartContract, ContextWeb3, ContextGeneral:
		return c
	}
	return ContextGeneral
}

// AnalysisType selects one of the fixed graph-analysis prompt templates.
type AnalysisType string

const (
	AnalysisOverview     AnalysisType = "overview"
	AnalysisLearningPath AnalysisType = "learning_path"
	AnalysisClusters     AnalysisType = "clusters"
	AnalysisGaps         AnalysisType = "gaps"
)

// ParseAnalysisType falls back to overview for unrecognized values.
func ParseAnalysisType(s string) AnalysisType {
	switch AnalysisType(s) {
	case AnalysisLearningPath:
		return AnalysisLearningPath
	case AnalysisClusters:
		return AnalysisClusters
	case AnalysisGaps:
		return AnalysisGaps
	default:
		return AnalysisOverview
	}
}

const (
	// MaxInsights / MaxSuggestions cap what an analysis reply may carry.
	MaxInsights    = 5
	MaxSuggestions = 3
)

// AnalysisResult is the validated, capped reply of the graph-analysis model.
type AnalysisResult struct {
	Summary     string   `json:"summary"`
	Insights    []string `json:"insights"`
	Suggestions []string `json:"suggestions"`
}

// WeakCluster is a topic cluster whose mean edge weight fell below the
// weakness threshold. Derived per request, never stored.
type WeakCluster struct {
	Cluster   string  `json:"cluster"`
	AvgWeight float64 `json:"avgWeight"`
	EdgeCount int     `json:"edgeCount"`
}

// ConceptGap is one knowledge gap proposed by the model for a weak cluster.
type ConceptGap struct {
	Cluster         string   `json:"cluster"`
	MissingConcepts []string `json:"missingConcepts"`
	Confidence      float64  `json:"confidence"`
}

// GapReport is the full output of gap detection.
type GapReport struct {
	Gaps        []ConceptGap `json:"gaps"`
	Suggestions []string     `json:"suggestions"`
}

// QuizQuestion is one generated multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     string   `json:"correct"`
	Explanation string   `json:"explanation"`
}

// BadgeFormat selects the aspect ratio and composition of a generated badge.
type BadgeFormat string

const (
	BadgeSquare      BadgeFormat = "square"
	BadgeStory       BadgeFormat = "story"
	BadgeCertificate BadgeFormat = "certificate"
	BadgePoster      BadgeFormat = "poster"
	BadgeBanner      BadgeFormat = "banner"
)

// ParseBadgeFormat falls back to square for unrecognized values.
func ParseBadgeFormat(s string) BadgeFormat {
	switch BadgeFormat(s) {
	case BadgeStory, BadgeCertificate, BadgePoster, BadgeBanner:
		return BadgeFormat(s)
	default:
		return BadgeSquare
	}
}

// BadgeRequest describes the achievement badge to render.
type BadgeRequest struct {
	Domain    string
	Score     int
	NodeCount int
	Concepts  []string
	Format    BadgeFormat
}

// BadgeResult carries the rendered image and generation metadata.
type BadgeResult struct {
	ImageData      string // base64 PNG
	PromptUsed     string
	GenerationTime float64 // seconds
}
