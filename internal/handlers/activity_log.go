package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type ActivityLogHandler struct {
	service *services.ActivityLogService
}

func NewActivityLogHandler(db *gorm.DB) *ActivityLogHandler {
	return &ActivityLogHandler{
		service: services.NewActivityLogService(db),
	}
}

// List returns paginated activity logs with filters
// GET /api/activity-logs
func (h *ActivityLogHandler) List(c *gin.Context) {
	var req services.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// GetModules returns the distinct module names seen in the log
// GET /api/activity-logs/modules
func (h *ActivityLogHandler) GetModules(c *gin.Context) {
	modules, err := h.service.GetModules()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, modules)
}
