package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/middleware"
	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

type RequestHandler struct {
	service      *services.FeedbackRequestService
	distribution *services.DistributionService
	responses    *services.ResponseService
}

func NewRequestHandler(db *gorm.DB, distribution *services.DistributionService, responses *services.ResponseService) *RequestHandler {
	return &RequestHandler{
		service:      services.NewFeedbackRequestService(db),
		distribution: distribution,
		responses:    responses,
	}
}

// List returns paginated requests
// GET /api/requests
func (h *RequestHandler) List(c *gin.Context) {
	var req services.RequestListRequest
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

// Get returns one request with recipients
// GET /api/requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	request, err := h.service.GetByID(middleware.GetBusinessID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, request)
}

// Create stores a pending request
// POST /api/requests
func (h *RequestHandler) Create(c *gin.Context) {
	var req services.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	request, err := h.service.Create(middleware.GetBusinessID(c), middleware.GetUserID(c), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Created(c, request)
}

// Distribute fans the request out to its recipients. When the async
// queue is up the work is handed off and the response reports queued;
// otherwise delivery happens inline and the response carries the
// success/failure counts. Either way the request is marked sent after
// the fan-out completes, partial failure included.
// POST /api/requests/:id/distribute
func (h *RequestHandler) Distribute(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	businessID := middleware.GetBusinessID(c)

	request, err := h.service.GetByID(businessID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if request.Status != models.StatusPending {
		respondServiceError(c, &services.InvalidStateError{
			Current:  string(request.Status),
			Required: string(models.StatusPending),
		})
		return
	}

	queue := services.GetTaskQueue()
	if queue != nil && queue.IsAsync() {
		task := &services.DistributionTask{RequestID: request.ID, BusinessID: businessID}
		if err := queue.Enqueue(task); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, gin.H{"queued": true})
		return
	}

	result, err := h.distribution.Distribute(c.Request.Context(), request)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.service.MarkSent(businessID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// Delete removes a pending request
// DELETE /api/requests/:id
func (h *RequestHandler) Delete(c *gin.Context) {
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

// Responses lists the answers submitted for a request
// GET /api/requests/:id/responses
func (h *RequestHandler) Responses(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	answers, err := h.responses.ListByRequest(middleware.GetBusinessID(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, answers)
}
