package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/genai"

	"github.com/fluent-web3/agent/internal/agent/extract"
	"github.com/fluent-web3/agent/internal/agent/graph"
	"github.com/fluent-web3/agent/internal/agent/graph/conversations"
	"github.com/fluent-web3/agent/internal/agent/graph/nodes"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/agent/repo"
	"github.com/fluent-web3/agent/internal/analysis"
	"github.com/fluent-web3/agent/internal/api"
	"github.com/fluent-web3/agent/internal/core"
	"github.com/fluent-web3/agent/internal/kg"
	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
	pkgredis "github.com/fluent-web3/agent/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent, sourced from
// environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis    pkgredis.Config
	Supabase model.SupabaseConfig
	Server   model.ServerConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Extraction   model.ExtractionModelConfig
	Analysis     model.AnalysisModelConfig
	Badge        model.BadgeModelConfig
	Conversation model.ConversationConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("Could not load .env file")
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logx.Fatal().Err(err).Msg("Failed to process environment config")
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.LoggerOpts{Environment: env})
	if env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logx.Fatal().Str("ttl", cfg.Conversation.TTL).Err(err).Msg("Invalid CONVERSATION_TTL")
	}
	sessions := repo.NewRedisConversationRepository(rdb, ttl)

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	// One set of chat models serves both the chat graph and the REST services.
	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		Client:           client,
		ExtractionConfig: &cfg.Extraction,
		AnalysisConfig:   &cfg.Analysis,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to create chat models")
	}

	facts := kg.NewSeededStore()
	mm := conversations.NewMessagesManager(sessions, cfg.Conversation)

	runnable, err := graph.BuildGraph(ctx, &graph.GraphConfig{
		ChatModels:      cms,
		MessagesManager: mm,
		Store:           facts,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build chat graph")
	}
	runner := graph.NewRunner(runnable)

	// The persistence bridge is optional: without Supabase credentials the
	// agent still runs, and the endpoints that need it degrade in-band.
	var graphStore store.GraphStore
	if cfg.Supabase.Enabled() {
		sb, err := store.NewSupabaseStore(cfg.Supabase.URL, cfg.Supabase.ServiceRoleKey)
		if err != nil {
			logx.Error().Err(err).Msg("Supabase unavailable, continuing without persistence")
		} else {
			graphStore = sb
		}
	} else {
		logx.Warn().Msg("Supabase not configured, persistence bridge disabled")
	}

	server := api.NewServer(api.Deps{
		AgentName:  cfg.Server.AgentName,
		Runner:     runner,
		Extractor:  extract.NewExtractor(cms.Extraction, cms.ExtractionModelName),
		Analyzer:   analysis.NewAnalyzer(cms.Analysis),
		Gaps:       analysis.NewGapDetector(graphStore, cms.Analysis),
		Quiz:       analysis.NewQuizGenerator(graphStore, cms.Analysis),
		Badge:      analysis.NewBadgeGenerator(client, cfg.Badge.Model),
		Syncer:     analysis.NewGraphSyncer(graphStore),
		GraphStore: graphStore,
		Facts:      facts,
		Sessions:   sessions,
		History:    mm,
	})

	if err := server.Run(cfg.Server.Addr); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server exited")
	}
}
