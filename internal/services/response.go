package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// multiSelectDelimiter joins checkbox selections into the single text
// value stored per answer. Reconstructing the selected set splits on
// the same delimiter; no ordering is guaranteed.
const multiSelectDelimiter = ","

type ResponseService struct {
	db         *gorm.DB
	classifier Classifier
}

func NewResponseService(db *gorm.DB, classifier Classifier) *ResponseService {
	return &ResponseService{db: db, classifier: classifier}
}

type AnswerInput struct {
	QuestionID uint     `json:"question_id" binding:"required"`
	Value      string   `json:"value"`
	Values     []string `json:"values"` // checkbox selections
}

type SubmitAnswersRequest struct {
	Email   string        `json:"email" binding:"required,email"`
	Answers []AnswerInput `json:"answers" binding:"required"`
}

// SentimentStats aggregates classifications for a business. The counts
// always reconcile: Positive + Negative + Neutral == Total.
type SentimentStats struct {
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
	Neutral  int64 `json:"neutral"`
	Total    int64 `json:"total"`
}

// JoinMultiSelect encodes checkbox selections into the stored value.
func JoinMultiSelect(values []string) string {
	return strings.Join(values, multiSelectDelimiter)
}

// SplitMultiSelect reconstructs the selected option set from a stored
// checkbox answer. Callers must not assume any particular ordering.
func SplitMultiSelect(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, multiSelectDelimiter)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Submit records a respondent's answers against a request. The
// respondent is matched to the recipient set by email. Answers to
// required questions must be present. Free-text answers are classified
// after the write; classification is advisory and never blocks the
// submission.
func (s *ResponseService) Submit(ctx context.Context, request *models.FeedbackRequest, req *SubmitAnswersRequest) error {
	var customer models.Customer
	err := s.db.Joins("JOIN feedback_request_recipients ON feedback_request_recipients.customer_id = customers.id").
		Where("feedback_request_recipients.request_id = ? AND customers.email = ?",
			request.ID, normalizeEmail(req.Email)).
		First(&customer).Error
	if err != nil {
		return newValidationError("email %q is not a recipient of this request", req.Email)
	}

	var questions []models.Question
	if err := s.db.Where("template_id = ?", request.TemplateID).Order("position ASC").Find(&questions).Error; err != nil {
		return err
	}

	byQuestion := make(map[uint]*AnswerInput, len(req.Answers))
	for i := range req.Answers {
		byQuestion[req.Answers[i].QuestionID] = &req.Answers[i]
	}

	answers := make([]models.Answer, 0, len(questions))
	var freeTextIdx []int

	for _, q := range questions {
		in, ok := byQuestion[q.ID]
		value := ""
		if ok {
			if q.Kind == models.QuestionCheckbox && len(in.Values) > 0 {
				value = JoinMultiSelect(in.Values)
			} else {
				value = strings.TrimSpace(in.Value)
			}
		}
		if value == "" {
			if q.Required {
				return newValidationError("question %q requires an answer", q.Text)
			}
			continue
		}

		answers = append(answers, models.Answer{
			RequestID:  request.ID,
			QuestionID: q.ID,
			CustomerID: customer.ID,
			Value:      value,
		})
		if q.Kind.FreeText() {
			freeTextIdx = append(freeTextIdx, len(answers)-1)
		}
	}

	if len(answers) == 0 {
		return newValidationError("submission contains no answers")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range answers {
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, i := range freeTextIdx {
		if err := s.classifyAnswer(ctx, &answers[i]); err != nil {
			logger.Warnf("[Sentiment] answer %d classification failed: %v", answers[i].ID, err)
		}
	}

	return nil
}

// classifyAnswer computes and stores the sentiment record for one
// answer. The unique answer_id index makes repeated classification an
// overwrite, so recomputation is idempotent.
func (s *ResponseService) classifyAnswer(ctx context.Context, answer *models.Answer) error {
	result, err := s.classifier.Classify(ctx, answer.Value)
	if err != nil {
		return err
	}

	var keywords string
	if len(result.Keywords) > 0 {
		if b, err := json.Marshal(result.Keywords); err == nil {
			keywords = string(b)
		}
	}

	record := models.SentimentRecord{
		AnswerID:       answer.ID,
		Classification: result.Sentiment,
		Confidence:     result.Confidence,
		Keywords:       keywords,
		Summary:        result.Summary,
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "answer_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"classification", "confidence", "keywords", "summary", "updated_at"}),
	}).Create(&record).Error
}

// Reclassify recomputes the sentiment record for a stored answer.
func (s *ResponseService) Reclassify(ctx context.Context, answerID uint) (*models.SentimentRecord, error) {
	var answer models.Answer
	if err := s.db.First(&answer, answerID).Error; err != nil {
		return nil, err
	}

	if err := s.classifyAnswer(ctx, &answer); err != nil {
		return nil, err
	}

	var record models.SentimentRecord
	if err := s.db.Where("answer_id = ?", answerID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByRequest returns all answers submitted for a request, joined to
// their sentiment records where present.
func (s *ResponseService) ListByRequest(businessID, requestID uint) ([]models.Answer, error) {
	var request models.FeedbackRequest
	if err := s.db.Where("business_id = ?", businessID).First(&request, requestID).Error; err != nil {
		return nil, err
	}

	var answers []models.Answer
	err := s.db.Where("request_id = ?", requestID).Order("created_at ASC").Find(&answers).Error
	return answers, err
}

// Stats counts sentiment records grouped by classification for a
// business's customers' answers.
func (s *ResponseService) Stats(businessID uint) (*SentimentStats, error) {
	stats := &SentimentStats{}

	rows := []struct {
		Classification string
		Count          int64
	}{}

	err := s.db.Model(&models.SentimentRecord{}).
		Select("sentiment_records.classification, COUNT(*) as count").
		Joins("JOIN answers ON answers.id = sentiment_records.answer_id").
		Joins("JOIN customers ON customers.id = answers.customer_id").
		Where("customers.business_id = ?", businessID).
		Group("sentiment_records.classification").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		switch row.Classification {
		case models.SentimentPositive:
			stats.Positive = row.Count
		case models.SentimentNegative:
			stats.Negative = row.Count
		case models.SentimentNeutral:
			stats.Neutral = row.Count
		}
		stats.Total += row.Count
	}

	return stats, nil
}
