package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type BusinessHandler struct {
	service *services.BusinessService
}

func NewBusinessHandler(db *gorm.DB) *BusinessHandler {
	return &BusinessHandler{
		service: services.NewBusinessService(db),
	}
}

// Get returns the caller's business profile
// GET /api/business
func (h *BusinessHandler) Get(c *gin.Context) {
	business, err := h.service.Get(middleware.GetBusinessID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, business)
}

// Update edits the business profile
// PUT /api/business
func (h *BusinessHandler) Update(c *gin.Context) {
	var req services.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	business, err := h.service.Update(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, business)
}

// ListLocations lists the business's locations
// GET /api/business/locations
func (h *BusinessHandler) ListLocations(c *gin.Context) {
	locations, err := h.service.ListLocations(middleware.GetBusinessID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, locations)
}

// CreateLocation adds a location
// POST /api/business/locations
func (h *BusinessHandler) CreateLocation(c *gin.Context) {
	var req services.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	location, err := h.service.CreateLocation(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, location)
}

// DeleteLocation removes a location
// DELETE /api/business/locations/:id
func (h *BusinessHandler) DeleteLocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(middleware.GetBusinessID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListDepartments lists the business's departments
// GET /api/business/departments
func (h *BusinessHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(middleware.GetBusinessID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, departments)
}

// CreateDepartment adds a department
// POST /api/business/departments
func (h *BusinessHandler) CreateDepartment(c *gin.Context) {
	var req services.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	department, err := h.service.CreateDepartment(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, department)
}

// DeleteDepartment removes a department
// DELETE /api/business/departments/:id
func (h *BusinessHandler) DeleteDepartment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteDepartment(middleware.GetBusinessID(c), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}
