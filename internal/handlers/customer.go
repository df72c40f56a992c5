package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

// maxCSVUploadBytes caps the accepted import file size.
const maxCSVUploadBytes = 5 << 20

type CustomerHandler struct {
	service *services.CustomerService
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{
		service: services.NewCustomerService(db),
	}
}

// List returns paginated customers
// GET /api/customers
func (h *CustomerHandler) List(c *gin.Context) {
	var req services.CustomerListRequest
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

// Get returns one customer
// GET /api/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	customer, err := h.service.GetByID(middleware.GetBusinessID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, customer)
}

// Create adds a single customer
// POST /api/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req services.AddCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	customer, err := h.service.Add(middleware.GetBusinessID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, customer)
}

// Update edits mutable customer fields
// PUT /api/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	customer, err := h.service.Update(middleware.GetBusinessID(c), id, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, customer)
}

// Delete soft-deletes a customer not referenced by open requests
// DELETE /api/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
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

// ImportCSV parses an uploaded CSV file into customer candidates without
// persisting anything. The client reviews the candidates and commits
// them through BatchCreate.
// POST /api/customers/import
func (h *CustomerHandler) ImportCSV(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxCSVUploadBytes))
	if err != nil {
		response.BadRequest(c, "unreadable file upload")
		return
	}

	candidates, err := services.ImportCustomerCSV(string(data))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"customers": candidates, "count": len(candidates)})
}

type batchCreateRequest struct {
	Customers []services.CustomerCandidate `json:"customers" binding:"required"`
}

// BatchCreate persists reviewed import candidates. Already-stored emails
// come back in the duplicates list rather than failing the batch.
// POST /api/customers/batch
func (h *CustomerHandler) BatchCreate(c *gin.Context) {
	var req batchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.BatchCreate(middleware.GetBusinessID(c), req.Customers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}
