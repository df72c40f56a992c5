package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a business staff member who can log in to the dashboard.
type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	BusinessID uint           `gorm:"index;not null" json:"business_id"`
	Username   string         `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Password   string         `gorm:"size:255" json:"-"` // bcrypt hash
	Email      string         `gorm:"size:255" json:"email"`
	Nickname   string         `gorm:"size:100" json:"nickname"`
	Role       string         `gorm:"size:50;default:user" json:"role"` // admin, user
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time     `json:"last_login"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
