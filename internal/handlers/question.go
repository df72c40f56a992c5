package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type QuestionHandler struct {
	service *services.QuestionService
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{
		service: services.NewQuestionService(db),
	}
}

// Create appends a question to a template
// POST /api/templates/:id/questions
func (h *QuestionHandler) Create(c *gin.Context) {
	templateID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.QuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	question, err := h.service.Create(middleware.GetBusinessID(c), templateID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, question)
}

// Update edits a question
// PUT /api/questions/:id
func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	question, err := h.service.Update(middleware.GetBusinessID(c), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, question)
}

type reorderRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// Reorder swaps a question with its neighbor
// POST /api/questions/:id/reorder
func (h *QuestionHandler) Reorder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.Reorder(middleware.GetBusinessID(c), id, req.Direction); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// Delete removes a question and closes the position gap
// DELETE /api/questions/:id
func (h *QuestionHandler) Delete(c *gin.Context) {
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
