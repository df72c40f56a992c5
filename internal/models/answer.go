package models

import (
	"time"
)

// Answer is a submitted response to one question. For checkbox questions
// the value is a comma-joined list of selected option labels. Answers are
// immutable after creation.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  uint      `gorm:"index;not null" json:"request_id"`
	QuestionID uint      `gorm:"index;not null" json:"question_id"`
	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Value      string    `gorm:"type:text" json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentRecord is the derived classification of a free-text answer.
// It is advisory, not authoritative; recomputing from the same answer
// text must yield the same classification. The unique AnswerID index
// makes recompute an overwrite rather than a duplicate.
type SentimentRecord struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	AnswerID       uint      `gorm:"uniqueIndex;not null" json:"answer_id"`
	Classification string    `gorm:"size:20;not null;index" json:"classification"` // positive, negative, neutral
	Confidence     float64   `gorm:"not null" json:"confidence"`
	Keywords       string    `gorm:"size:1000" json:"keywords"` // JSON array of matched terms
	Summary        string    `gorm:"size:1000" json:"summary"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Answer) TableName() string          { return "answers" }
func (SentimentRecord) TableName() string { return "sentiment_records" }
