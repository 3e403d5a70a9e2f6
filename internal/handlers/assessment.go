package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/requestdata"
	"github.com/kkurosawa/ssbj-readiness-backend/internal/services"
)

type AssessmentHandler struct {
	assessmentService services.AssessmentService
}

func NewAssessmentHandler(assessmentService services.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// requestUserID pulls the authenticated user id from the request context.
func requestUserID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("no authenticated user in context")
	}
	return rd.UserID, nil
}

func pathID(c *gin.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	var req services.CreateAssessmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	assessment, err := h.assessmentService.Create(c.Request.Context(), userID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

func (h *AssessmentHandler) List(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessments, err := h.assessmentService.List(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessments": assessments})
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessmentID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	assessment, err := h.assessmentService.Get(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (h *AssessmentHandler) SaveScores(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessmentID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req struct {
		Scores []services.ScoreInput `json:"scores"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	assessment, err := h.assessmentService.SaveScores(c.Request.Context(), userID, assessmentID, req.Scores)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (h *AssessmentHandler) Complete(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessmentID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	assessment, err := h.assessmentService.Complete(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, assessment)
}

func (h *AssessmentHandler) Delete(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessmentID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := h.assessmentService.Delete(c.Request.Context(), userID, assessmentID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
