package services

import (
	"strings"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type UpdateQuestionRequest struct {
	Text     *string  `json:"text"`
	Kind     *string  `json:"kind" binding:"omitempty,oneof=input textarea radio checkbox"`
	Required *bool    `json:"required"`
	Options  []string `json:"options"`
}

const (
	ReorderUp   = "up"
	ReorderDown = "down"
)

// Create appends a question at the end of the template's order.
func (s *QuestionService) Create(businessID, templateID uint, in *QuestionInput) (*models.Question, error) {
	var template models.FeedbackTemplate
	if err := s.db.Where("business_id = ?", businessID).First(&template, templateID).Error; err != nil {
		return nil, err
	}

	kind, opts, err := validateQuestionInput(in)
	if err != nil {
		return nil, err
	}

	var maxPos int
	s.db.Model(&models.Question{}).Where("template_id = ?", templateID).
		Select("COALESCE(MAX(position), 0)").Scan(&maxPos)

	question := models.Question{
		TemplateID: templateID,
		Position:   maxPos + 1,
		Text:       in.Text,
		Kind:       kind,
		Required:   in.Required,
	}
	question.SetOptionList(opts)

	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

// Update merges the patch into the question and re-validates the
// choice/option invariant against the merged result. Changing kind from
// choice to free-text clears options silently; changing from free-text
// to choice requires at least one option in the same patch.
func (s *QuestionService) Update(businessID, id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.getOwned(businessID, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		if strings.TrimSpace(*req.Text) == "" {
			return nil, newValidationError("question text must not be blank")
		}
		question.Text = *req.Text
	}
	if req.Required != nil {
		question.Required = *req.Required
	}
	if req.Kind != nil {
		kind := models.QuestionKind(*req.Kind)
		if !kind.Valid() {
			return nil, newValidationError("unknown question kind %q", *req.Kind)
		}
		question.Kind = kind
	}
	if req.Options != nil {
		question.SetOptionList(req.Options)
	}

	if question.Kind.RequiresOptions() {
		if len(question.OptionList()) == 0 {
			return nil, newValidationError("choice questions need at least one option")
		}
	} else {
		question.SetOptionList(nil)
	}

	if err := s.db.Save(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// Reorder swaps the question with its immediate neighbor in the given
// direction ("up" or "down"). A swap that would move past either end of
// the list is a no-op, not an error.
func (s *QuestionService) Reorder(businessID, id uint, direction string) error {
	if direction != ReorderUp && direction != ReorderDown {
		return newValidationError("direction must be %q or %q", ReorderUp, ReorderDown)
	}

	question, err := s.getOwned(businessID, id)
	if err != nil {
		return err
	}

	var neighbor models.Question
	query := s.db.Where("template_id = ?", question.TemplateID)
	if direction == ReorderUp {
		query = query.Where("position < ?", question.Position).Order("position DESC")
	} else {
		query = query.Where("position > ?", question.Position).Order("position ASC")
	}
	if err := query.First(&neighbor).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil // already at the edge
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Question{}).Where("id = ?", question.ID).
			Update("position", neighbor.Position).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", neighbor.ID).
			Update("position", question.Position).Error
	})
}

// Delete removes a question and closes the position gap so the order
// stays dense.
func (s *QuestionService) Delete(businessID, id uint) error {
	question, err := s.getOwned(businessID, id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(question).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).
			Where("template_id = ? AND position > ?", question.TemplateID, question.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// getOwned loads a question and verifies its template belongs to the business.
func (s *QuestionService) getOwned(businessID, id uint) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	var template models.FeedbackTemplate
	if err := s.db.Where("business_id = ?", businessID).First(&template, question.TemplateID).Error; err != nil {
		return nil, err
	}
	return &question, nil
}
