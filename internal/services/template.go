package services

import (
	"errors"
	"strings"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

type TemplateService struct {
	db *gorm.DB
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

type QuestionInput struct {
	Text     string   `json:"text" binding:"required"`
	Kind     string   `json:"kind" binding:"required,oneof=input textarea radio checkbox"`
	Required bool     `json:"required"`
	Options  []string `json:"options"`
}

type CreateTemplateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Channel       string          `json:"channel" binding:"required,oneof=email sms whatsapp"`
	ShowLogo      bool            `json:"show_logo"`
	LogoURL       string          `json:"logo_url"`
	ShowStatement bool            `json:"show_statement"`
	Statement     string          `json:"statement"`
	Questions     []QuestionInput `json:"questions" binding:"required"`
}

type UpdateTemplateRequest struct {
	Name          string `json:"name"`
	Channel       string `json:"channel" binding:"omitempty,oneof=email sms whatsapp"`
	ShowLogo      *bool  `json:"show_logo"`
	LogoURL       *string `json:"logo_url"`
	ShowStatement *bool  `json:"show_statement"`
	Statement     *string `json:"statement"`
}

type TemplateListRequest struct {
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	Name     string `form:"name"`
	Channel  string `form:"channel"`
}

type TemplateListResponse struct {
	Total    int64                     `json:"total"`
	Page     int                       `json:"page"`
	PageSize int                       `json:"page_size"`
	Items    []models.FeedbackTemplate `json:"items"`
}

// validateBranding enforces: a branding flag that is on must have its
// associated content field populated.
func validateBranding(showLogo bool, logoURL string, showStatement bool, statement string) error {
	if showLogo && strings.TrimSpace(logoURL) == "" {
		return newValidationError("logo display is enabled but no logo URL is set")
	}
	if showStatement && strings.TrimSpace(statement) == "" {
		return newValidationError("statement display is enabled but no statement text is set")
	}
	return nil
}

// validateQuestionInput checks a single question definition and
// normalizes its option list for the given kind.
func validateQuestionInput(in *QuestionInput) (models.QuestionKind, []string, error) {
	if strings.TrimSpace(in.Text) == "" {
		return "", nil, newValidationError("question text must not be blank")
	}
	kind := models.QuestionKind(in.Kind)
	if !kind.Valid() {
		return "", nil, newValidationError("unknown question kind %q", in.Kind)
	}
	if kind.RequiresOptions() {
		if len(in.Options) == 0 {
			return "", nil, newValidationError("question %q is a choice question and needs at least one option", in.Text)
		}
		return kind, in.Options, nil
	}
	// Free-text kinds never carry options.
	return kind, nil, nil
}

// Create persists a template together with its ordered question set.
// Positions are assigned 1..n in input order. Nothing is written when
// any part of the input fails validation.
func (s *TemplateService) Create(businessID, userID uint, req *CreateTemplateRequest) (*models.FeedbackTemplate, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, newValidationError("template name must not be blank")
	}
	channel := models.Channel(req.Channel)
	if !channel.Valid() {
		return nil, newValidationError("unknown channel %q", req.Channel)
	}
	if err := validateBranding(req.ShowLogo, req.LogoURL, req.ShowStatement, req.Statement); err != nil {
		return nil, err
	}
	if len(req.Questions) == 0 {
		return nil, newValidationError("template needs at least one question")
	}

	template := models.FeedbackTemplate{
		BusinessID:    businessID,
		Name:          req.Name,
		Channel:       channel,
		ShowLogo:      req.ShowLogo,
		LogoURL:       req.LogoURL,
		ShowStatement: req.ShowStatement,
		Statement:     req.Statement,
		CreatedBy:     userID,
	}

	questions := make([]models.Question, 0, len(req.Questions))
	for i := range req.Questions {
		kind, opts, err := validateQuestionInput(&req.Questions[i])
		if err != nil {
			return nil, err
		}
		q := models.Question{
			Position: i + 1,
			Text:     req.Questions[i].Text,
			Kind:     kind,
			Required: req.Questions[i].Required,
		}
		q.SetOptionList(opts)
		questions = append(questions, q)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&template).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].TemplateID = template.ID
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	template.Questions = questions
	return &template, nil
}

// GetWithQuestions returns a template with its questions ordered by position.
func (s *TemplateService) GetWithQuestions(businessID, id uint) (*models.FeedbackTemplate, error) {
	var template models.FeedbackTemplate
	err := s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("business_id = ?", businessID).First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// List returns paginated templates for a business.
func (s *TemplateService) List(businessID uint, req *TemplateListRequest) (*TemplateListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 10
	}

	var templates []models.FeedbackTemplate
	var total int64

	query := s.db.Model(&models.FeedbackTemplate{}).Where("business_id = ?", businessID)

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Channel != "" {
		query = query.Where("channel = ?", req.Channel)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return &TemplateListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    templates,
	}, nil
}

// Update applies direct field edits and re-validates the branding
// invariant against the merged result.
func (s *TemplateService) Update(businessID, id uint, req *UpdateTemplateRequest) (*models.FeedbackTemplate, error) {
	var template models.FeedbackTemplate
	if err := s.db.Where("business_id = ?", businessID).First(&template, id).Error; err != nil {
		return nil, err
	}

	if req.Name != "" {
		if strings.TrimSpace(req.Name) == "" {
			return nil, newValidationError("template name must not be blank")
		}
		template.Name = req.Name
	}
	if req.Channel != "" {
		channel := models.Channel(req.Channel)
		if !channel.Valid() {
			return nil, newValidationError("unknown channel %q", req.Channel)
		}
		template.Channel = channel
	}
	if req.ShowLogo != nil {
		template.ShowLogo = *req.ShowLogo
	}
	if req.LogoURL != nil {
		template.LogoURL = *req.LogoURL
	}
	if req.ShowStatement != nil {
		template.ShowStatement = *req.ShowStatement
	}
	if req.Statement != nil {
		template.Statement = *req.Statement
	}

	if err := validateBranding(template.ShowLogo, template.LogoURL, template.ShowStatement, template.Statement); err != nil {
		return nil, err
	}

	if err := s.db.Save(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// Delete soft-deletes a template and its questions. Requests that
// reference the template are left untouched; reads against them
// tolerate the missing template.
func (s *TemplateService) Delete(businessID, id uint) error {
	var template models.FeedbackTemplate
	if err := s.db.Where("business_id = ?", businessID).First(&template, id).Error; err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
