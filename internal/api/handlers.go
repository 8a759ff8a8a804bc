package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fluent-web3/agent/internal/agent/model"
	"github.com/fluent-web3/agent/internal/store"
	logx "github.com/fluent-web3/agent/pkg/logger"
)

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"status":           "ok",
		"agent":            s.deps.AgentName,
		"timestamp":        nowRFC3339(),
		"mettaInitialized": s.deps.Facts != nil && s.deps.Facts.Size() > 0,
		"storeConnected":   s.deps.GraphStore != nil,
	})
}

func (s *Server) handleChat(c *gin.Context) {
	var msg ChatMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = msg.ID
	}

	resp := ChatResponse{
		Success: true,
		Acknowledgement: ChatAcknowledgement{
			AckOf:     msg.ID,
			Timestamp: nowRFC3339(),
		},
		Messages: []ChatMessage{},
	}

	for _, item := range msg.Content {
		switch item.Type {
		case ContentText:
			reply := s.deps.Runner.Invoke(c.Request.Context(), model.QueryInput{
				SessionID: sessionID,
				Text:      item.Text,
			})
			resp.Messages = append(resp.Messages, newReplyMessage(sessionID, reply))
		case ContentStartSession:
			logx.Info().Str("session_id", sessionID).Msg("chat session started")
		case ContentEndSession:
			logx.Info().Str("session_id", sessionID).Msg("chat session ended")
			if s.deps.Sessions != nil {
				if err := s.deps.Sessions.ClearHistory(c.Request.Context(), sessionID); err != nil {
					logx.Warn().Err(err).Str("session_id", sessionID).Msg("failed to clear session history")
				}
			}
		default:
			logx.Warn().Str("type", item.Type).Msg("unknown chat content type ignored")
		}
	}

	c.JSON(http.StatusOK, resp)
}

type explainSentenceRequest struct {
	Sentence string `json:"sentence" binding:"required"`
	URL      string `json:"url"`
	UserID   string `json:"user_id"`
}

func (s *Server) handleExplainSentence(c *gin.Context) {
	var req explainSentenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	res, exErr := s.deps.Extractor.Extract(c.Request.Context(), req.Sentence)

	// auto-ingest, even when extraction degraded (the default result is empty
	// and inserts nothing)
	if s.deps.Facts != nil {
		for _, term := range res.Terms {
			s.deps.Facts.InsertConcept(term, res.Context)
		}
		for _, rel := range res.Relations {
			s.deps.Facts.InsertTriple(rel)
		}
	}

	captured := false
	if exErr == nil && req.UserID != "" && s.deps.GraphStore != nil {
		sentence := store.CapturedSentence{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			Sentence:   req.Sentence,
			Terms:      res.Terms,
			Context:    res.Context,
			Confidence: 100,
			Timestamp:  nowRFC3339(),
		}
		if err := s.deps.GraphStore.SaveSentence(c.Request.Context(), sentence); err != nil {
			logx.Warn().Err(err).Str("user_id", req.UserID).Msg("failed to capture sentence")
		} else {
			captured = true
		}
	}

	body := gin.H{
		"success":     exErr == nil,
		"explanation": explainText(res, exErr),
		"concepts":    res.Terms,
		"relations":   res.Relations,
		"context":     res.Context,
		"captured":    captured,
		"timestamp":   nowRFC3339(),
	}
	if exErr != nil {
		body["error"] = exErr.Error()
	}
	c.JSON(http.StatusOK, body)
}

func explainText(res *model.ExtractionResult, exErr error) string {
	if exErr != nil {
		return fmt.Sprintf("Explanation unavailable: %v", exErr)
	}
	if len(res.Terms) == 0 {
		return "No Web3 concepts recognized in this sentence."
	}
	return fmt.Sprintf("This sentence touches %s concepts: %s. %d relation(s) were identified and added to your knowledge graph.",
		res.Context, strings.Join(res.Terms, ", "), len(res.Relations))
}

type graphAnalysisRequest struct {
	QueryType   string `json:"queryType" binding:"required"`
	UserContext string `json:"userContext"`
}

func (s *Server) handleGraphAnalysis(c *gin.Context) {
	var req graphAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	snapshot := "{}"
	if s.deps.Facts != nil {
		b, err := json.Marshal(s.deps.Facts.Export())
		if err != nil {
			c.JSON(http.StatusOK, gin.H{
				"success": false, "error": err.Error(),
				"analysis": fmt.Sprintf("Analysis unavailable: %v", err),
				"insights": []string{}, "suggestions": []string{},
				"timestamp": nowRFC3339(),
			})
			return
		}
		snapshot = string(b)
	}

	res, anErr := s.deps.Analyzer.Analyze(c.Request.Context(), snapshot, model.ParseAnalysisType(req.QueryType), req.UserContext)

	body := gin.H{
		"success":     anErr == nil,
		"analysis":    res.Summary,
		"insights":    res.Insights,
		"suggestions": res.Suggestions,
		"timestamp":   nowRFC3339(),
	}
	if anErr != nil {
		body["error"] = anErr.Error()
	}
	c.JSON(http.StatusOK, body)
}

type detectGapsRequest struct {
	UserID         string `json:"userId" binding:"required"`
	UserXP         int    `json:"userXp"`
	HistoryContext string `json:"historyContext"`
	SessionID      string `json:"sessionId"`
}

func (s *Server) handleDetectGaps(c *gin.Context) {
	var req detectGapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	// An explicit historyContext wins; otherwise fall back to the caller's
	// chat session as conversational grounding.
	history := req.HistoryContext
	if history == "" && req.SessionID != "" && s.deps.History != nil {
		digest, err := s.deps.History.HistoryDigest(c.Request.Context(), req.SessionID)
		if err != nil {
			logx.Warn().Err(err).Str("session_id", req.SessionID).Msg("failed to load session history digest")
		} else {
			history = digest
		}
	}

	report, err := s.deps.Gaps.DetectGaps(c.Request.Context(), req.UserID, req.UserXP, history)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false, "error": err.Error(),
			"gaps": []model.ConceptGap{}, "suggestions": []string{},
			"timestamp": nowRFC3339(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"gaps":        report.Gaps,
		"suggestions": report.Suggestions,
		"timestamp":   nowRFC3339(),
	})
}

type generateQuizRequest struct {
	UserID     string `json:"userId" binding:"required"`
	GapCluster string `json:"gapCluster" binding:"required"`
	Difficulty int    `json:"difficulty"`
}

func (s *Server) handleGenerateQuiz(c *gin.Context) {
	var req generateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	if req.Difficulty < 1 || req.Difficulty > 3 {
		req.Difficulty = 1
	}

	questions := s.deps.Quiz.GenerateQuiz(c.Request.Context(), req.UserID, req.GapCluster, req.Difficulty)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"questions":  questions,
		"cluster":    req.GapCluster,
		"difficulty": req.Difficulty,
		"timestamp":  nowRFC3339(),
	})
}

type generateBadgeRequest struct {
	Domain    string   `json:"domain" binding:"required"`
	Score     int      `json:"score"`
	NodeCount int      `json:"nodeCount"`
	Concepts  []string `json:"concepts"`
	Format    string   `json:"format"`
}

func (s *Server) handleGenerateBadge(c *gin.Context) {
	var req generateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := s.deps.Badge.GenerateBadge(c.Request.Context(), model.BadgeRequest{
		Domain:    req.Domain,
		Score:     req.Score,
		NodeCount: req.NodeCount,
		Concepts:  req.Concepts,
		Format:    model.ParseBadgeFormat(req.Format),
	})
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false, "error": err.Error(),
			"imageData": "", "promptUsed": "", "generationTime": 0,
			"timestamp": nowRFC3339(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"imageData":      result.ImageData,
		"promptUsed":     result.PromptUsed,
		"generationTime": result.GenerationTime,
		"timestamp":      nowRFC3339(),
	})
}

type syncGraphRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (s *Server) handleSyncGraph(c *gin.Context) {
	var req syncGraphRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	nodes, edges, err := s.deps.Syncer.SyncGraph(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false, "error": err.Error(),
			"nodesSynced": 0, "edgesSynced": 0,
			"timestamp": nowRFC3339(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"nodesSynced": nodes,
		"edgesSynced": edges,
		"timestamp":   nowRFC3339(),
	})
}
