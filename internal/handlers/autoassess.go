package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/services"
)

type AutoAssessHandler struct {
	autoAssessService services.AutoAssessService
	aiScorerService   services.AIScorerService
}

func NewAutoAssessHandler(autoAssessService services.AutoAssessService, aiScorerService services.AIScorerService) *AutoAssessHandler {
	return &AutoAssessHandler{
		autoAssessService: autoAssessService,
		aiScorerService:   aiScorerService,
	}
}

// Analyze runs the keyword scorer over submitted document text. Scores are
// returned to the caller; nothing is persisted until scores are saved on an
// assessment.
func (h *AutoAssessHandler) Analyze(c *gin.Context) {
	if _, err := requestUserID(c); err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	scores := h.autoAssessService.ScoreAll(req.Text)
	RespondOK(c, gin.H{"scores": scores})
}

// AnalyzeAI scores via the chat model and fails loudly when the model or
// transport errors; partial results are never returned.
func (h *AutoAssessHandler) AnalyzeAI(c *gin.Context) {
	if _, err := requestUserID(c); err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	if h.aiScorerService == nil {
		RespondError(c, http.StatusServiceUnavailable, "ai_unavailable", nil)
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	scores, err := h.aiScorerService.ScoreAll(c.Request.Context(), req.Text)
	if err != nil {
		RespondError(c, http.StatusBadGateway, "ai_scoring_failed", err)
		return
	}
	RespondOK(c, gin.H{"scores": scores})
}
