package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/services"
)

type DerivationHandler struct {
	derivationService services.DerivationService
}

func NewDerivationHandler(derivationService services.DerivationService) *DerivationHandler {
	return &DerivationHandler{derivationService: derivationService}
}

func (h *DerivationHandler) Report(c *gin.Context) {
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
	report, err := h.derivationService.Report(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, report)
}

func (h *DerivationHandler) Roadmap(c *gin.Context) {
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
	roadmap, err := h.derivationService.Roadmap(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, roadmap)
}

func (h *DerivationHandler) RACI(c *gin.Context) {
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
	raci, err := h.derivationService.RACI(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, raci)
}

func (h *DerivationHandler) Relief(c *gin.Context) {
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
	relief, err := h.derivationService.Relief(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, relief)
}

func (h *DerivationHandler) Summary(c *gin.Context) {
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
	summary, err := h.derivationService.Summary(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, summary)
}

func (h *DerivationHandler) AuditSimulation(c *gin.Context) {
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
	audit, err := h.derivationService.Audit(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, audit)
}

func (h *DerivationHandler) Checklist(c *gin.Context) {
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
	checklist, err := h.derivationService.Checklist(c.Request.Context(), userID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, checklist)
}
