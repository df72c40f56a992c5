package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	service *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{
		service: services.NewDashboardService(db),
	}
}

// GetStats returns the business's dashboard aggregates
// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	var req services.DashboardStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.GetStats(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}
