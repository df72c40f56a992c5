package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/repustack/repustack/backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database migrated with the full
// schema. Each test gets its own named memory database so parallel
// tests cannot observe each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Business{},
		&models.Location{},
		&models.Department{},
		&models.FeedbackTemplate{},
		&models.Question{},
		&models.Customer{},
		&models.FeedbackRequest{},
		&models.RequestRecipient{},
		&models.Answer{},
		&models.SentimentRecord{},
		&models.ActivityLog{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	return db
}

// seedBusiness creates a business for tests that need an owner row.
func seedBusiness(t *testing.T, db *gorm.DB) *models.Business {
	t.Helper()

	business := models.Business{
		Name:         "Test Cafe",
		SupportEmail: "support@testcafe.example",
	}
	if err := db.Create(&business).Error; err != nil {
		t.Fatalf("seed business: %v", err)
	}
	return &business
}

// seedTemplate creates an email template with one required textarea
// question and one optional radio question.
func seedTemplate(t *testing.T, db *gorm.DB, businessID uint) *models.FeedbackTemplate {
	t.Helper()

	template := models.FeedbackTemplate{
		BusinessID: businessID,
		Name:       "Visit feedback",
		Channel:    models.ChannelEmail,
	}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("seed template: %v", err)
	}

	questions := []models.Question{
		{TemplateID: template.ID, Position: 1, Text: "How was it?", Kind: models.QuestionTextarea, Required: true},
		{TemplateID: template.ID, Position: 2, Text: "Rating", Kind: models.QuestionRadio, Options: `["Good","Bad"]`},
	}
	for i := range questions {
		if err := db.Create(&questions[i]).Error; err != nil {
			t.Fatalf("seed question: %v", err)
		}
	}
	template.Questions = questions
	return &template
}

// seedCustomer creates one active customer.
func seedCustomer(t *testing.T, db *gorm.DB, businessID uint, name, email string) *models.Customer {
	t.Helper()

	customer := models.Customer{
		BusinessID: businessID,
		Name:       name,
		Email:      email,
		Status:     models.CustomerActive,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("seed customer %s: %v", email, err)
	}
	return &customer
}
