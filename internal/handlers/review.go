package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kkurosawa/ssbj-readiness-backend/internal/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) Start(c *gin.Context) {
	reviewerID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	assessmentID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	review, err := h.reviewService.Start(c.Request.Context(), reviewerID, assessmentID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) Get(c *gin.Context) {
	if _, err := requestUserID(c); err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	review, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, review)
}

func (h *ReviewHandler) RecordItem(c *gin.Context) {
	reviewerID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req services.RecordItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := h.reviewService.RecordItem(c.Request.Context(), reviewerID, reviewID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, item)
}

func (h *ReviewHandler) Finish(c *gin.Context) {
	reviewerID, err := requestUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", err)
		return
	}
	reviewID, err := pathID(c, "id")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	var req services.FinishReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	review, err := h.reviewService.Finish(c.Request.Context(), reviewerID, reviewID, req)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, review)
}
