package services

import (
	"errors"
	"testing"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/gorm"
)

func TestValidateBranding(t *testing.T) {
	tests := []struct {
		name          string
		showLogo      bool
		logoURL       string
		showStatement bool
		statement     string
		wantErr       bool
	}{
		{"all off", false, "", false, "", false},
		{"logo on with url", true, "https://cdn.example/logo.png", false, "", false},
		{"logo on without url", true, "", false, "", true},
		{"logo on blank url", true, "   ", false, "", true},
		{"statement on with text", false, "", true, "We care.", false},
		{"statement on without text", false, "", true, "", true},
		{"content without flag", false, "https://cdn.example/logo.png", false, "ignored", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBranding(tt.showLogo, tt.logoURL, tt.showStatement, tt.statement)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateBranding() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuestionInput(t *testing.T) {
	tests := []struct {
		name     string
		in       QuestionInput
		wantErr  bool
		wantOpts int
	}{
		{"input kind", QuestionInput{Text: "Name?", Kind: "input"}, false, 0},
		{"textarea kind", QuestionInput{Text: "Comments?", Kind: "textarea"}, false, 0},
		{"radio with options", QuestionInput{Text: "Rate?", Kind: "radio", Options: []string{"Good", "Bad"}}, false, 2},
		{"radio without options", QuestionInput{Text: "Rate?", Kind: "radio"}, true, 0},
		{"checkbox without options", QuestionInput{Text: "Pick?", Kind: "checkbox"}, true, 0},
		{"free text drops options", QuestionInput{Text: "Why?", Kind: "textarea", Options: []string{"A"}}, false, 0},
		{"unknown kind", QuestionInput{Text: "X?", Kind: "dropdown"}, true, 0},
		{"blank text", QuestionInput{Text: "  ", Kind: "input"}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, opts, err := validateQuestionInput(&tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateQuestionInput() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(opts) != tt.wantOpts {
				t.Errorf("options = %v, expected %d entries", opts, tt.wantOpts)
			}
		})
	}
}

func TestTemplateCreate_AssignsPositions(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	service := NewTemplateService(db)

	template, err := service.Create(business.ID, 1, &CreateTemplateRequest{
		Name:    "Post-visit",
		Channel: "email",
		Questions: []QuestionInput{
			{Text: "First?", Kind: "input"},
			{Text: "Second?", Kind: "radio", Options: []string{"Yes", "No"}},
			{Text: "Third?", Kind: "textarea"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for i, q := range template.Questions {
		if q.Position != i+1 {
			t.Errorf("question %d position = %d, expected %d", i, q.Position, i+1)
		}
	}
}

func TestTemplateCreate_RejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	service := NewTemplateService(db)

	tests := []struct {
		name string
		req  CreateTemplateRequest
	}{
		{"no questions", CreateTemplateRequest{Name: "Empty", Channel: "email", Questions: nil}},
		{"bad channel", CreateTemplateRequest{Name: "X", Channel: "fax", Questions: []QuestionInput{{Text: "Q", Kind: "input"}}}},
		{"branding broken", CreateTemplateRequest{Name: "X", Channel: "email", ShowLogo: true, Questions: []QuestionInput{{Text: "Q", Kind: "input"}}}},
		{"choice without options", CreateTemplateRequest{Name: "X", Channel: "email", Questions: []QuestionInput{{Text: "Q", Kind: "checkbox"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(business.ID, 1, &tt.req)
			if !IsValidationError(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}

	// No partial writes from any rejected create.
	var count int64
	db.Model(&models.FeedbackTemplate{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected creates must not persist templates, found %d", count)
	}
	db.Model(&models.Question{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected creates must not persist questions, found %d", count)
	}
}

func TestTemplateUpdate_RevalidatesBranding(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	service := NewTemplateService(db)

	template, err := service.Create(business.ID, 1, &CreateTemplateRequest{
		Name:     "Branded",
		Channel:  "email",
		ShowLogo: true,
		LogoURL:  "https://cdn.example/logo.png",
		Questions: []QuestionInput{
			{Text: "Q?", Kind: "input"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Clearing the URL while the flag stays on breaks the invariant.
	empty := ""
	_, err = service.Update(business.ID, template.ID, &UpdateTemplateRequest{LogoURL: &empty})
	if !IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Turning the flag off together with the URL is fine.
	off := false
	if _, err := service.Update(business.ID, template.ID, &UpdateTemplateRequest{ShowLogo: &off, LogoURL: &empty}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestTemplateDelete_RemovesQuestions(t *testing.T) {
	db := newTestDB(t)
	business := seedBusiness(t, db)
	template := seedTemplate(t, db, business.ID)
	service := NewTemplateService(db)

	if err := service.Delete(business.ID, template.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Soft delete hides the row from normal reads.
	if _, err := service.GetWithQuestions(business.ID, template.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("deleted template should not be readable, got %v", err)
	}

	var count int64
	db.Model(&models.Question{}).Where("template_id = ?", template.ID).Count(&count)
	if count != 0 {
		t.Errorf("questions should be removed with the template, found %d", count)
	}
}
