package model

// ================ Config ================

type ConversationConfig struct {
	TTL      string `envconfig:"CONVERSATION_TTL" default:"15m"`
	MaxTurns int    `envconfig:"CONVERSATION_MAX_TURNS" default:"5"`
}

type ExtractionModelConfig struct {
	Model       string  `envconfig:"EXTRACTION_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"EXTRACTION_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"EXTRACTION_TEMPERATURE" default:"0.1"`
}

type AnalysisModelConfig struct {
	Model       string  `envconfig:"ANALYSIS_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ANALYSIS_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"ANALYSIS_TEMPERATURE" default:"0.4"`
}

type BadgeModelConfig struct {
	// Empty model disables badge image generation.
	Model string `envconfig:"BADGE_IMAGE_MODEL" default:"gemini-2.5-flash-image"`
}

type SupabaseConfig struct {
	// Both empty is valid: the persistence bridge is then disabled and
	// features that need it degrade.
	URL            string `envconfig:"SUPABASE_URL"`
	ServiceRoleKey string `envconfig:"SUPABASE_SERVICE_ROLE_KEY"`
}

func (c SupabaseConfig) Enabled() bool {
	return c.URL != "" && c.ServiceRoleKey != ""
}

type ServerConfig struct {
	Addr      string `envconfig:"HTTP_ADDR" default:":8010"`
	AgentName string `envconfig:"AGENT_NAME" default:"FluentAgent"`
}
