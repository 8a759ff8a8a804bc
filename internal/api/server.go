// Package api exposes the agent over HTTP: the chat protocol endpoint plus
// the REST surface for extraction, analysis, gaps, quizzes, badges, and
// graph sync. Handlers are fail-soft: past request binding, failures are
// reported in-band with success=false and the result fields still shaped.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fluent-web3/agent/internal/agent/extract"
	"github.com/fluent-web3/agent/internal/agent/graph"
	"github.com/fluent-web3/agent/internal/agent/graph/conversations"
	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/analysis"
	"github.com/fluent-web3/agent/internal/kg"
	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

// Deps carries every collaborator the HTTP layer needs. GraphStore, Badge,
// History, Sessions, and Facts may be nil/disabled; the endpoints that need
// them degrade in-band.
type Deps struct {
	AgentName  string
	Runner     graph.Runner
	Extractor  *extract.Extractor
	Analyzer   *analysis.Analyzer
	Gaps       *analysis.GapDetector
	Quiz       *analysis.QuizGenerator
	Badge      *analysis.BadgeGenerator
	Syncer     *analysis.GraphSyncer
	GraphStore store.GraphStore
	Facts      *kg.Store
	Sessions   model.ConversationRepository
	History    *conversations.MessagesManager
}

// Server wires the gin engine and routes.
type Server struct {
	deps   Deps
	engine *gin.Engine
}

func NewServer(deps Deps) *Server {
	engine := gin.New()
	engine.Use(RequestLogger(), gin.Recovery())

	s := &Server{deps: deps, engine: engine}

	engine.GET("/health", s.handleHealth)
	engine.POST("/chat", s.handleChat)
	engine.POST("/explain-sentence", s.handleExplainSentence)
	engine.POST("/graph-analysis", s.handleGraphAnalysis)
	engine.POST("/detect-gaps", s.handleDetectGaps)
	engine.POST("/generate-quiz", s.handleGenerateQuiz)
	engine.POST("/generate-badge-image", s.handleGenerateBadge)
	engine.POST("/sync-graph", s.handleSyncGraph)

	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run blocks serving HTTP on addr.
func (s *Server) Run(addr string) error {
	logx.Info().Str("addr", addr).Str("agent", s.deps.AgentName).Msg("http server starting")
	return s.engine.Run(addr)
}
