package models

import (
	"fmt"

	"github.com/repustack/repustack/backend/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(cfg *config.DatabaseConfig) error {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB = db
	return nil
}

func AutoMigrate() error {
	return DB.AutoMigrate(
		&User{},
		&Business{},
		&Location{},
		&Department{},
		&FeedbackTemplate{},
		&Question{},
		&Customer{},
		&FeedbackRequest{},
		&RequestRecipient{},
		&Answer{},
		&SentimentRecord{},
		&ActivityLog{},
	)
}

func GetDB() *gorm.DB {
	return DB
}

// SeedDefaultData creates a starter business and template on an empty database.
func SeedDefaultData() error {
	var businessCount int64
	DB.Model(&Business{}).Count(&businessCount)
	if businessCount > 0 {
		return nil
	}

	business := Business{
		Name:         "Demo Business",
		SupportEmail: "support@example.com",
		Website:      "https://example.com",
	}
	if err := DB.Create(&business).Error; err != nil {
		return err
	}

	template := FeedbackTemplate{
		BusinessID:    business.ID,
		Name:          "Post-visit feedback",
		Channel:       ChannelEmail,
		ShowStatement: true,
		Statement:     "We value your feedback. It takes less than a minute.",
	}
	if err := DB.Create(&template).Error; err != nil {
		return err
	}

	questions := []Question{
		{TemplateID: template.ID, Position: 1, Text: "How was your overall experience?", Kind: QuestionRadio, Required: true, Options: `["Excellent","Good","Average","Poor"]`},
		{TemplateID: template.ID, Position: 2, Text: "What did you like?", Kind: QuestionCheckbox, Options: `["Service","Speed","Price","Staff"]`},
		{TemplateID: template.ID, Position: 3, Text: "Anything we could improve?", Kind: QuestionTextarea},
	}
	for _, q := range questions {
		if err := DB.Create(&q).Error; err != nil {
			return err
		}
	}

	return nil
}
