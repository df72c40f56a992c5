package models

import (
	"time"

	"gorm.io/gorm"
)

// Business is the tenant that owns templates, customers and requests.
type Business struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:200;not null" json:"name"`
	SupportEmail string         `gorm:"size:255" json:"support_email"`
	SupportPhone string         `gorm:"size:50" json:"support_phone"`
	Website      string         `gorm:"size:500" json:"website"`
	LogoURL      string         `gorm:"size:500" json:"logo_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Location is a physical site of a business, optionally scoping a request.
type Location struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	Address    string    `gorm:"size:500" json:"address"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Department is an organizational unit of a business, optionally scoping a request.
type Department struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BusinessID uint      `gorm:"index;not null" json:"business_id"`
	Name       string    `gorm:"size:200;not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Business) TableName() string   { return "businesses" }
func (Location) TableName() string   { return "locations" }
func (Department) TableName() string { return "departments" }
