package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type TemplateHandler struct {
	service *services.TemplateService
}

func NewTemplateHandler(db *gorm.DB) *TemplateHandler {
	return &TemplateHandler{
		service: services.NewTemplateService(db),
	}
}

// parseID extracts a numeric :id route param.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// List returns paginated templates
// GET /api/templates
func (h *TemplateHandler) List(c *gin.Context) {
	var req services.TemplateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Get returns a template with its ordered questions
// GET /api/templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	template, err := h.service.GetWithQuestions(middleware.GetBusinessID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, template)
}

// Create creates a template with its question set
// POST /api/templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req services.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.service.Create(middleware.GetBusinessID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, template)
}

// Update edits template fields
// PUT /api/templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	template, err := h.service.Update(middleware.GetBusinessID(c), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, template)
}

// Delete removes a template and its questions
// DELETE /api/templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(middleware.GetBusinessID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
