package services

import (
	"context"
	"testing"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

func TestJoinSplitMultiSelect(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		stored string
	}{
		{"two selections", []string{"Coffee", "Tea"}, "Coffee,Tea"},
		{"single selection", []string{"Coffee"}, "Coffee"},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := JoinMultiSelect(tt.values)
			if stored != tt.stored {
				t.Fatalf("JoinMultiSelect = %q, expected %q", stored, tt.stored)
			}
			back := SplitMultiSelect(stored)
			if len(back) != len(tt.values) {
				t.Fatalf("SplitMultiSelect = %v, expected %v", back, tt.values)
			}
			for i := range tt.values {
				if back[i] != tt.values[i] {
					t.Errorf("SplitMultiSelect[%d] = %q, expected %q", i, back[i], tt.values[i])
				}
			}
		})
	}
}

// submitFixture builds a pending request with one recipient so answer
// submission has something to land on.
func submitFixture(t *testing.T, db *gorm.DB) (*models.Business, *models.FeedbackTemplate, *models.Customer, *models.FeedbackRequest) {
	t.Helper()

	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	customer := seedCustomer(t, db, business.ID, "Alice", "alice@example.com")

	request, err := NewFeedbackRequestService(db).Create(business.ID, 1, &CreateRequestRequest{
		TemplateID:  template.ID,
		Channel:     "email",
		CustomerIDs: []uint{customer.ID},
	})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return business, template, customer, request
}

func TestSubmit_RejectsNonRecipient(t *testing.T) {
	db := newTestDB(t)
	_, template, _, request := submitFixture(t, db)
	service := NewResponseService(db, NewKeywordClassifier())

	err := service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "stranger@example.com",
		Answers: []AnswerInput{
			{QuestionID: template.Questions[0].ID, Value: "Fine"},
		},
	})
	if !IsValidationError(err) {
		t.Errorf("submission from a non-recipient should fail, got %v", err)
	}
}

func TestSubmit_RequiredQuestionMustBeAnswered(t *testing.T) {
	db := newTestDB(t)
	_, template, _, request := submitFixture(t, db)
	service := NewResponseService(db, NewKeywordClassifier())

	// Only the optional radio is answered; the required textarea is not.
	err := service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "alice@example.com",
		Answers: []AnswerInput{
			{QuestionID: template.Questions[1].ID, Value: "Good"},
		},
	})
	if !IsValidationError(err) {
		t.Fatalf("missing required answer should fail, got %v", err)
	}

	// A whitespace-only value does not satisfy a required question.
	err = service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "alice@example.com",
		Answers: []AnswerInput{
			{QuestionID: template.Questions[0].ID, Value: "   "},
		},
	})
	if !IsValidationError(err) {
		t.Errorf("blank required answer should fail, got %v", err)
	}

	var count int64
	db.Model(&models.Answer{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected submissions must not persist answers, found %d", count)
	}
}

func TestSubmit_StoresAnswersAndClassifies(t *testing.T) {
	db := newTestDB(t)
	_, template, customer, request := submitFixture(t, db)
	service := NewResponseService(db, NewKeywordClassifier())

	err := service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "Alice@Example.COM", // matching is case-insensitive
		Answers: []AnswerInput{
			{QuestionID: template.Questions[0].ID, Value: "Terrible service, very slow"},
			{QuestionID: template.Questions[1].ID, Value: "Bad"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var answers []models.Answer
	if err := db.Where("request_id = ?", request.ID).Find(&answers).Error; err != nil {
		t.Fatalf("load answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(answers))
	}
	for _, a := range answers {
		if a.CustomerID != customer.ID {
			t.Errorf("answer %d attributed to customer %d, expected %d", a.ID, a.CustomerID, customer.ID)
		}
	}

	// Only the free-text answer gets a sentiment record.
	var records []models.SentimentRecord
	if err := db.Find(&records).Error; err != nil {
		t.Fatalf("load sentiment: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 sentiment record, got %d", len(records))
	}
	if records[0].Classification != models.SentimentNegative {
		t.Errorf("classification = %q, expected negative", records[0].Classification)
	}
}

func TestSubmit_JoinsCheckboxSelections(t *testing.T) {
	db := newTestDB(t)
	_, template, _, request := submitFixture(t, db)

	checkbox := models.Question{
		TemplateID: template.ID,
		Position:   3,
		Text:       "What did you order?",
		Kind:       models.QuestionCheckbox,
		Options:    `["Coffee","Tea","Cake"]`,
	}
	if err := db.Create(&checkbox).Error; err != nil {
		t.Fatalf("seed checkbox question: %v", err)
	}

	service := NewResponseService(db, NewKeywordClassifier())
	err := service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "alice@example.com",
		Answers: []AnswerInput{
			{QuestionID: template.Questions[0].ID, Value: "Fine"},
			{QuestionID: checkbox.ID, Values: []string{"Coffee", "Cake"}},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var answer models.Answer
	if err := db.Where("question_id = ?", checkbox.ID).First(&answer).Error; err != nil {
		t.Fatalf("load checkbox answer: %v", err)
	}
	if answer.Value != "Coffee,Cake" {
		t.Errorf("stored value = %q, expected joined selections", answer.Value)
	}
	if got := SplitMultiSelect(answer.Value); len(got) != 2 {
		t.Errorf("round-trip selections = %v", got)
	}
}

func TestReclassify_Idempotent(t *testing.T) {
	db := newTestDB(t)
	_, template, _, request := submitFixture(t, db)
	service := NewResponseService(db, NewKeywordClassifier())

	err := service.Submit(context.Background(), request, &SubmitAnswersRequest{
		Email: "alice@example.com",
		Answers: []AnswerInput{
			{QuestionID: template.Questions[0].ID, Value: "Great food, friendly staff"},
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	var answer models.Answer
	if err := db.First(&answer).Error; err != nil {
		t.Fatalf("load answer: %v", err)
	}

	first, err := service.Reclassify(context.Background(), answer.ID)
	if err != nil {
		t.Fatalf("reclassify: %v", err)
	}
	second, err := service.Reclassify(context.Background(), answer.ID)
	if err != nil {
		t.Fatalf("second reclassify: %v", err)
	}

	if first.Classification != second.Classification || first.Confidence != second.Confidence {
		t.Errorf("reclassification changed result: %+v vs %+v", first, second)
	}

	// Still exactly one record per answer.
	var count int64
	db.Model(&models.SentimentRecord{}).Where("answer_id = ?", answer.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 sentiment record, got %d", count)
	}
}

func TestStats_CountsReconcile(t *testing.T) {
	db := newTestDB(t)
	business, template, _, _ := submitFixture(t, db)
	service := NewResponseService(db, NewKeywordClassifier())

	// Three more recipients, each submitting a differently toned answer.
	texts := map[string]string{
		"bob@example.com":   "Great food, loved it",
		"carol@example.com": "Terrible, never again",
		"dave@example.com":  "It was a restaurant",
	}
	requests := NewFeedbackRequestService(db)
	for email, text := range texts {
		customer := seedCustomer(t, db, business.ID, email, email)
		req, err := requests.Create(business.ID, 1, &CreateRequestRequest{
			TemplateID:  template.ID,
			Channel:     "email",
			CustomerIDs: []uint{customer.ID},
		})
		if err != nil {
			t.Fatalf("create request for %s: %v", email, err)
		}
		err = service.Submit(context.Background(), req, &SubmitAnswersRequest{
			Email: email,
			Answers: []AnswerInput{
				{QuestionID: template.Questions[0].ID, Value: text},
			},
		})
		if err != nil {
			t.Fatalf("submit for %s: %v", email, err)
		}
	}

	stats, err := service.Stats(business.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Positive != 1 || stats.Negative != 1 || stats.Neutral != 1 {
		t.Errorf("unexpected distribution %+v", stats)
	}
	if stats.Positive+stats.Negative+stats.Neutral != stats.Total {
		t.Errorf("counts do not reconcile: %+v", stats)
	}
}
