package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/pkg/logger"
	"github.com/repustack/repustack/backend/pkg/response"
	"gorm.io/gorm"
)

// PublicHandler serves the unauthenticated feedback form routes, keyed
// by the per-request token.
type PublicHandler struct {
	db        *gorm.DB
	requests  *services.FeedbackRequestService
	responses *services.ResponseService
}

func NewPublicHandler(db *gorm.DB, responses *services.ResponseService) *PublicHandler {
	return &PublicHandler{
		db:        db,
		requests:  services.NewFeedbackRequestService(db),
		responses: responses,
	}
}

type publicQuestion struct {
	ID       uint     `json:"id"`
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type publicForm struct {
	BusinessName  string           `json:"business_name"`
	ShowLogo      bool             `json:"show_logo"`
	LogoURL       string           `json:"logo_url,omitempty"`
	ShowStatement bool             `json:"show_statement"`
	Statement     string           `json:"statement,omitempty"`
	Questions     []publicQuestion `json:"questions"`
}

// GetForm resolves a form token and returns the renderable form.
// Fetching a sent request's form counts as opening it.
// GET /f/:token
func (h *PublicHandler) GetForm(c *gin.Context) {
	token := c.Param("token")

	request, err := h.requests.GetByToken(token)
	if err != nil {
		response.NotFound(c, "feedback form not found")
		return
	}

	// The template may have been deleted after distribution; the link
	// then dead-ends politely instead of erroring.
	if request.Template == nil || request.Template.ID == 0 {
		response.NotFound(c, "this feedback form is no longer available")
		return
	}

	if err := h.requests.MarkOpened(request.ID); err != nil {
		logger.Warnf("[Public] mark opened for request %d: %v", request.ID, err)
	}

	var business models.Business
	h.db.First(&business, request.BusinessID)

	form := publicForm{
		BusinessName:  business.Name,
		ShowLogo:      request.Template.ShowLogo,
		ShowStatement: request.Template.ShowStatement,
		Questions:     make([]publicQuestion, 0, len(request.Template.Questions)),
	}
	if form.ShowLogo {
		form.LogoURL = request.Template.LogoURL
	}
	if form.ShowStatement {
		form.Statement = request.Template.Statement
	}
	for _, q := range request.Template.Questions {
		form.Questions = append(form.Questions, publicQuestion{
			ID:       q.ID,
			Position: q.Position,
			Text:     q.Text,
			Kind:     string(q.Kind),
			Required: q.Required,
			Options:  q.OptionList(),
		})
	}

	response.Success(c, form)
}

// SubmitForm records a respondent's answers.
// POST /f/:token
func (h *PublicHandler) SubmitForm(c *gin.Context) {
	token := c.Param("token")

	request, err := h.requests.GetByToken(token)
	if err != nil {
		response.NotFound(c, "feedback form not found")
		return
	}

	var req services.SubmitAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.responses.Submit(c.Request.Context(), request, &req); err != nil {
		respondServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "thank you for your feedback"})
}
