package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus is the lifecycle milestone of a feedback request.
// It tracks the request, not per-recipient delivery outcome.
type RequestStatus string

const (
	StatusPending RequestStatus = "pending"
	StatusSent    RequestStatus = "sent"
	StatusOpened  RequestStatus = "opened"
)

// FeedbackRequest binds a template, a channel and a recipient set.
// Status moves pending → sent → opened; the pending → sent transition is
// one-way and happens exactly once.
type FeedbackRequest struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	BusinessID   uint               `gorm:"index;not null" json:"business_id"`
	LocationID   *uint              `json:"location_id"`
	DepartmentID *uint              `json:"department_id"`
	TemplateID   uint               `gorm:"index;not null" json:"template_id"`
	Template     *FeedbackTemplate  `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Channel      Channel            `gorm:"size:20;not null" json:"channel"`
	RequestedBy  uint               `json:"requested_by"`
	Token        string             `gorm:"uniqueIndex;size:64;not null" json:"token"` // public form link token
	Status       RequestStatus      `gorm:"size:20;default:pending;index" json:"status"`
	Recipients   []RequestRecipient `gorm:"foreignKey:RequestID" json:"recipients,omitempty"`
	SentAt       *time.Time         `json:"sent_at"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`
}

// RequestRecipient is one row per (request, customer) pair. The unique
// pair index gives the recipient list set semantics.
type RequestRecipient struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RequestID  uint      `gorm:"not null;uniqueIndex:idx_request_recipient" json:"request_id"`
	CustomerID uint      `gorm:"not null;uniqueIndex:idx_request_recipient" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func (FeedbackRequest) TableName() string  { return "feedback_requests" }
func (RequestRecipient) TableName() string { return "feedback_request_recipients" }
