package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	CustomerActive   = "active"
	CustomerInactive = "inactive"
)

// Customer is a deduplicated per-business contact. The (business_id, email)
// pair is the sole deduplication key and is enforced by a composite unique
// index at the storage boundary, not just by application pre-checks.
type Customer struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BusinessID uint           `gorm:"not null;uniqueIndex:idx_customers_business_email" json:"business_id"`
	Name       string         `gorm:"size:200;not null" json:"name"`
	Email      string         `gorm:"size:255;not null;uniqueIndex:idx_customers_business_email" json:"email"`
	Phone      string         `gorm:"size:50" json:"phone"`
	Status     string         `gorm:"size:20;default:active" json:"status"` // active, inactive
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"`
}

func (Customer) TableName() string { return "customers" }
