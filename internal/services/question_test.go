package services

import (
	"testing"

	"github.com/repustack/repustack/backend/internal/models"
)

func loadOrdered(t *testing.T, service *QuestionService, templateID uint) []models.Question {
	t.Helper()
	var questions []models.Question
	if err := service.db.Where("template_id = ?", templateID).Order("position ASC").Find(&questions).Error; err != nil {
		t.Fatalf("load questions: %v", err)
	}
	return questions
}

func TestQuestionCreate_AppendsAtEnd(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	question, err := service.Create(business.ID, template.ID, &QuestionInput{
		Text: "Anything else?",
		Kind: "textarea",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if question.Position != 3 {
		t.Errorf("appended position = %d, expected 3", question.Position)
	}
}

func TestQuestionReorder_SwapAndBack(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	original := loadOrdered(t, service, template.ID)
	first, second := original[0], original[1]

	if err := service.Reorder(business.ID, first.ID, ReorderDown); err != nil {
		t.Fatalf("reorder down: %v", err)
	}
	swapped := loadOrdered(t, service, template.ID)
	if swapped[0].ID != second.ID || swapped[1].ID != first.ID {
		t.Fatalf("expected swapped order, got %d,%d", swapped[0].ID, swapped[1].ID)
	}

	// Moving back restores the original order.
	if err := service.Reorder(business.ID, first.ID, ReorderUp); err != nil {
		t.Fatalf("reorder up: %v", err)
	}
	restored := loadOrdered(t, service, template.ID)
	if restored[0].ID != first.ID || restored[1].ID != second.ID {
		t.Fatalf("expected original order, got %d,%d", restored[0].ID, restored[1].ID)
	}
}

func TestQuestionReorder_EdgeIsNoOp(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	original := loadOrdered(t, service, template.ID)

	if err := service.Reorder(business.ID, original[0].ID, ReorderUp); err != nil {
		t.Fatalf("reorder up at top should be a no-op, got %v", err)
	}
	if err := service.Reorder(business.ID, original[len(original)-1].ID, ReorderDown); err != nil {
		t.Fatalf("reorder down at bottom should be a no-op, got %v", err)
	}

	after := loadOrdered(t, service, template.ID)
	for i := range original {
		if after[i].ID != original[i].ID {
			t.Fatalf("edge reorder changed order at %d", i)
		}
	}
}

func TestQuestionReorder_BadDirection(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	questions := loadOrdered(t, service, template.ID)
	if err := service.Reorder(business.ID, questions[0].ID, "sideways"); !IsValidationError(err) {
		t.Errorf("expected ValidationError for bad direction, got %v", err)
	}
}

func TestQuestionDelete_ResequencesPositions(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	// Add a third question, then delete the middle one.
	if _, err := service.Create(business.ID, template.ID, &QuestionInput{Text: "Third?", Kind: "input"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	questions := loadOrdered(t, service, template.ID)

	if err := service.Delete(business.ID, questions[1].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	remaining := loadOrdered(t, service, template.ID)
	if len(remaining) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(remaining))
	}
	for i, q := range remaining {
		if q.Position != i+1 {
			t.Errorf("position[%d] = %d, expected %d (order must stay dense)", i, q.Position, i+1)
		}
	}
}

func TestQuestionUpdate_KindChangeRules(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewQuestionService(db)

	questions := loadOrdered(t, service, template.ID)
	freeText, choice := questions[0], questions[1]

	// Free-text to choice without options in the same patch fails.
	radio := "radio"
	if _, err := service.Update(business.ID, freeText.ID, &UpdateQuestionRequest{Kind: &radio}); !IsValidationError(err) {
		t.Errorf("kind change to choice without options should fail, got %v", err)
	}

	// Free-text to choice with options succeeds.
	updated, err := service.Update(business.ID, freeText.ID, &UpdateQuestionRequest{
		Kind:    &radio,
		Options: []string{"Yes", "No"},
	})
	if err != nil {
		t.Fatalf("kind change with options: %v", err)
	}
	if len(updated.OptionList()) != 2 {
		t.Errorf("options = %v", updated.OptionList())
	}

	// Choice to free-text clears options silently.
	textarea := "textarea"
	updated, err = service.Update(business.ID, choice.ID, &UpdateQuestionRequest{Kind: &textarea})
	if err != nil {
		t.Fatalf("kind change to free-text: %v", err)
	}
	if updated.Options != "" {
		t.Errorf("options should be cleared, got %q", updated.Options)
	}
}
