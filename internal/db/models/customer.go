package models

import (
	"time"

	"gorm.io/gorm"
)

// Customer is an end user of the NiceSpeak app. The admin panel only reads customers.
type Customer struct {
	ID                 string     `gorm:"primaryKey;size:36" json:"id"`
	Email              string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name               string     `gorm:"size:100;not null" json:"name"`
	Avatar             *string    `gorm:"size:255" json:"avatar"`
	SubscriptionTier   string     `gorm:"size:20;not null;default:'free';index" json:"subscription_tier"`
	SubscriptionStatus string     `gorm:"size:20;not null;default:'active'" json:"subscription_status"`
	Level              int        `gorm:"not null" json:"level"`
	TotalPractices     int        `gorm:"not null;default:0" json:"total_practices"`
	AverageScore       float64    `gorm:"not null;default:0" json:"average_score"`
	IsBanned           bool       `gorm:"not null;default:false" json:"is_banned"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `json:"registered_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName specifies the database table name for the Customer model.
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate assigns the id.
func (c *Customer) BeforeCreate(_ *gorm.DB) error {
	ensureID(&c.ID)

	return nil
}
