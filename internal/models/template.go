package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Channel is the delivery medium of a feedback request.
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// QuestionKind is the input type of a question.
type QuestionKind string

const (
	QuestionInput    QuestionKind = "input"
	QuestionTextarea QuestionKind = "textarea"
	QuestionRadio    QuestionKind = "radio"
	QuestionCheckbox QuestionKind = "checkbox"
)

// Valid reports whether k is a known question kind.
func (k QuestionKind) Valid() bool {
	switch k {
	case QuestionInput, QuestionTextarea, QuestionRadio, QuestionCheckbox:
		return true
	}
	return false
}

// RequiresOptions reports whether the kind needs a non-empty option list.
func (k QuestionKind) RequiresOptions() bool {
	return k == QuestionRadio || k == QuestionCheckbox
}

// FreeText reports whether answers to this kind are free-form text
// and therefore eligible for sentiment classification.
func (k QuestionKind) FreeText() bool {
	return k == QuestionInput || k == QuestionTextarea
}

// FeedbackTemplate is a reusable definition of a feedback form:
// an ordered question set plus branding options. A template has a
// channel affinity; requests bound to it must use the same channel.
type FeedbackTemplate struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	BusinessID    uint           `gorm:"index;not null" json:"business_id"`
	Name          string         `gorm:"size:200;not null" json:"name"`
	Channel       Channel        `gorm:"size:20;not null" json:"channel"`
	ShowLogo      bool           `gorm:"default:false" json:"show_logo"`
	LogoURL       string         `gorm:"size:500" json:"logo_url"`
	ShowStatement bool           `gorm:"default:false" json:"show_statement"`
	Statement     string         `gorm:"size:1000" json:"statement"`
	Questions     []Question     `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
	CreatedBy     uint           `json:"created_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Question is a single ordered question owned by a template.
// Options holds a JSON-encoded string array; it is non-empty exactly
// when Kind requires options.
type Question struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	TemplateID uint         `gorm:"index;not null" json:"template_id"`
	Position   int          `gorm:"not null" json:"position"`
	Text       string       `gorm:"size:1000;not null" json:"text"`
	Kind       QuestionKind `gorm:"size:20;not null" json:"kind"`
	Required   bool         `gorm:"default:false" json:"required"`
	Options    string       `gorm:"size:2000" json:"options"` // JSON array: ["Good","Bad"]
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// OptionList decodes the JSON option list. A missing or malformed
// list decodes to nil.
func (q *Question) OptionList() []string {
	if q.Options == "" {
		return nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
		return nil
	}
	return opts
}

// SetOptionList encodes opts into the Options field. Passing an empty
// slice clears the field.
func (q *Question) SetOptionList(opts []string) {
	if len(opts) == 0 {
		q.Options = ""
		return
	}
	b, _ := json.Marshal(opts)
	q.Options = string(b)
}

func (FeedbackTemplate) TableName() string { return "feedback_templates" }
func (Question) TableName() string         { return "questions" }
