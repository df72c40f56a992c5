package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
)

// SentimentHandler exposes sentiment aggregates and recomputation.
type SentimentHandler struct {
	responses *services.ResponseService
}

func NewSentimentHandler(responses *services.ResponseService) *SentimentHandler {
	return &SentimentHandler{responses: responses}
}

// Stats returns the positive/negative/neutral totals
// GET /api/sentiment/stats
func (h *SentimentHandler) Stats(c *gin.Context) {
	stats, err := h.responses.Stats(middleware.GetBusinessID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, stats)
}

// Reclassify recomputes the sentiment record for one answer
// POST /api/answers/:id/reclassify
func (h *SentimentHandler) Reclassify(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	record, err := h.responses.Reclassify(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, record)
}
